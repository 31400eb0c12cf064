// Package apptest fournit des dépôts en mémoire pour les tests des cas d'usage.
// Les lectures retournent des copies et les écritures repassent par Update/Upsert,
// pour reproduire le comportement transactionnel des dépôts Postgres.
package apptest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/application/ports"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// Store porte l'état partagé des dépôts en mémoire d'un test.
type Store struct {
	Stocks       map[string]*entity.Stock // clé produitID|magasinID
	Dispatches   map[string]*entity.Dispatch
	Rotations    map[string]*entity.Rotation
	Mouvements   []*entity.MouvementStock
	Livraisons   map[string]*entity.Livraison
	Produits     map[string]*entity.Produit
	Magasins     map[string]*entity.Magasin
	Clients      map[string]*entity.Client
	Chauffeurs   map[string]*entity.Chauffeur
	Utilisateurs map[string]*entity.Utilisateur
}

// NewStore construit un état vide.
func NewStore() *Store {
	return &Store{
		Stocks:       make(map[string]*entity.Stock),
		Dispatches:   make(map[string]*entity.Dispatch),
		Rotations:    make(map[string]*entity.Rotation),
		Livraisons:   make(map[string]*entity.Livraison),
		Produits:     make(map[string]*entity.Produit),
		Magasins:     make(map[string]*entity.Magasin),
		Clients:      make(map[string]*entity.Client),
		Chauffeurs:   make(map[string]*entity.Chauffeur),
		Utilisateurs: make(map[string]*entity.Utilisateur),
	}
}

func cleStock(produitID, magasinID string) string { return produitID + "|" + magasinID }

// SeedStock pose une ligne de stock disponible, sans réservation.
func (s *Store) SeedStock(produitID, magasinID string, disponible decimal.Decimal) {
	s.Stocks[cleStock(produitID, magasinID)] = &entity.Stock{
		ProduitID:          produitID,
		MagasinID:          magasinID,
		QuantiteDisponible: disponible,
	}
}

// StockDe retourne la ligne de stock courante, ou une ligne à zéro si absente.
func (s *Store) StockDe(produitID, magasinID string) entity.Stock {
	if st, ok := s.Stocks[cleStock(produitID, magasinID)]; ok {
		return *st
	}
	return entity.Stock{ProduitID: produitID, MagasinID: magasinID}
}

// Repos assemble les dépôts en mémoire sous la forme attendue par les cas d'usage.
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Dispatches: &DispatchRepo{s: s},
		Rotations:  &RotationRepo{s: s},
		Stocks:     &StockRepo{s: s},
		Mouvements: &MouvementRepo{s: s},
		Livraisons: &LivraisonRepo{s: s},
	}
}

// TxRunner exécute fn directement sur l'état partagé, sans transaction réelle.
func (s *Store) TxRunner() ports.TxRunner { return &runner{s: s} }

type runner struct{ s *Store }

func (r *runner) Run(_ context.Context, fn func(r ports.Repos) error) error {
	return fn(r.s.Repos())
}

// StockRepo dépôt de stocks en mémoire.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(_ context.Context, produitID, magasinID string) (*entity.Stock, error) {
	st, ok := r.s.Stocks[cleStock(produitID, magasinID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *st
	return &copie, nil
}

func (r *StockRepo) GetForUpdate(ctx context.Context, produitID, magasinID string) (*entity.Stock, error) {
	return r.Get(ctx, produitID, magasinID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	copie := *stock
	r.s.Stocks[cleStock(stock.ProduitID, stock.MagasinID)] = &copie
	return nil
}

func (r *StockRepo) List(_ context.Context, f repository.FiltresStock) ([]*repository.LigneStock, error) {
	var lignes []*repository.LigneStock
	for _, st := range r.s.Stocks {
		if f.ProduitID != "" && st.ProduitID != f.ProduitID {
			continue
		}
		if f.MagasinID != "" && st.MagasinID != f.MagasinID {
			continue
		}
		ligne := &repository.LigneStock{Stock: *st}
		if p, ok := r.s.Produits[st.ProduitID]; ok {
			ligne.ProduitNom = p.Nom
			ligne.ProduitRef = p.Reference
			ligne.Unite = p.Unite
			ligne.StockFaible = st.QuantiteDisponible.LessThan(p.SeuilAlerte)
		}
		if m, ok := r.s.Magasins[st.MagasinID]; ok {
			ligne.MagasinNom = m.Nom
		}
		if f.SousSeuil && !ligne.StockFaible {
			continue
		}
		lignes = append(lignes, ligne)
	}
	sort.Slice(lignes, func(i, j int) bool {
		return cleStock(lignes[i].Stock.ProduitID, lignes[i].Stock.MagasinID) <
			cleStock(lignes[j].Stock.ProduitID, lignes[j].Stock.MagasinID)
	})
	return lignes, nil
}

// DispatchRepo dépôt de dispatches en mémoire.
type DispatchRepo struct{ s *Store }

func (r *DispatchRepo) Create(_ context.Context, d *entity.Dispatch) error {
	for _, existant := range r.s.Dispatches {
		if existant.NumeroDispatch == d.NumeroDispatch {
			return domain.ErrDuplicate
		}
	}
	copie := *d
	r.s.Dispatches[d.ID] = &copie
	return nil
}

func (r *DispatchRepo) GetByID(_ context.Context, id string) (*entity.Dispatch, error) {
	d, ok := r.s.Dispatches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *d
	return &copie, nil
}

func (r *DispatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Dispatch, error) {
	return r.GetByID(ctx, id)
}

func (r *DispatchRepo) GetDetail(ctx context.Context, id string) (*repository.DispatchDetail, error) {
	d, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.detail(d), nil
}

func (r *DispatchRepo) detail(d *entity.Dispatch) *repository.DispatchDetail {
	det := &repository.DispatchDetail{Dispatch: *d}
	if p, ok := r.s.Produits[d.ProduitID]; ok {
		det.ProduitNom = p.Nom
		det.ProduitReference = p.Reference
		det.Unite = p.Unite
	}
	if m, ok := r.s.Magasins[d.MagasinSourceID]; ok {
		det.MagasinSourceNom = m.Nom
	}
	if d.MagasinDestinationID != nil {
		if m, ok := r.s.Magasins[*d.MagasinDestinationID]; ok {
			det.MagasinDestinationNom = m.Nom
		}
	}
	if d.ClientID != nil {
		if c, ok := r.s.Clients[*d.ClientID]; ok {
			det.ClientNom = c.Nom
		}
	}
	return det
}

func (r *DispatchRepo) List(_ context.Context, f repository.FiltresDispatch) ([]*repository.DispatchDetail, error) {
	var details []*repository.DispatchDetail
	for _, d := range r.s.Dispatches {
		if f.Statut != "" && d.Statut != f.Statut {
			continue
		}
		if f.MagasinID != "" && d.MagasinSourceID != f.MagasinID &&
			(d.MagasinDestinationID == nil || *d.MagasinDestinationID != f.MagasinID) {
			continue
		}
		if f.DateDebut != nil && d.DateCreation.Before(*f.DateDebut) {
			continue
		}
		if f.DateFin != nil && d.DateCreation.After(*f.DateFin) {
			continue
		}
		details = append(details, r.detail(d))
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Dispatch.DateCreation.After(details[j].Dispatch.DateCreation)
	})
	return details, nil
}

func (r *DispatchRepo) ListProgression(ctx context.Context, magasinID string) ([]*repository.ProgressionDispatch, error) {
	details, err := r.List(ctx, repository.FiltresDispatch{MagasinID: magasinID})
	if err != nil {
		return nil, err
	}
	rotations := &RotationRepo{s: r.s}
	var progressions []*repository.ProgressionDispatch
	for _, det := range details {
		if det.Dispatch.Statut == entity.DispatchAnnule {
			continue
		}
		allouee, err := rotations.SommeAllouee(ctx, det.Dispatch.ID)
		if err != nil {
			return nil, err
		}
		nb := 0
		for _, rot := range r.s.Rotations {
			if rot.DispatchID == det.Dispatch.ID && rot.Statut != entity.RotationAnnule {
				nb++
			}
		}
		p := &repository.ProgressionDispatch{
			DispatchDetail:  *det,
			QuantiteAllouee: allouee,
			ResteAAllouer:   det.Dispatch.QuantiteTotale.Sub(allouee),
			NombreRotations: nb,
		}
		if det.Dispatch.QuantiteTotale.GreaterThan(decimal.Zero) {
			p.Progression = allouee.Div(det.Dispatch.QuantiteTotale).Mul(decimal.NewFromInt(100)).Round(2)
		}
		progressions = append(progressions, p)
	}
	return progressions, nil
}

func (r *DispatchRepo) UpdateStatut(_ context.Context, id, statut string) error {
	d, ok := r.s.Dispatches[id]
	if !ok {
		return domain.ErrNotFound
	}
	d.Statut = statut
	d.UpdatedAt = time.Now()
	return nil
}

func (r *DispatchRepo) SommesDispatcheesParJour(_ context.Context, f repository.FiltresRapport) ([]*repository.AggregatDispatchJour, error) {
	agg := make(map[string]*repository.AggregatDispatchJour)
	for _, d := range r.s.Dispatches {
		if d.Statut == entity.DispatchAnnule || d.MagasinDestinationID == nil {
			continue
		}
		if f.MagasinID != "" && *d.MagasinDestinationID != f.MagasinID {
			continue
		}
		if f.ProduitID != "" && d.ProduitID != f.ProduitID {
			continue
		}
		if f.DateDebut != nil && d.DateCreation.Before(*f.DateDebut) {
			continue
		}
		if f.DateFin != nil && d.DateCreation.After(*f.DateFin) {
			continue
		}
		jour := d.DateCreation.Truncate(24 * time.Hour)
		cle := jour.Format("2006-01-02") + "|" + *d.MagasinDestinationID + "|" + d.ProduitID
		a, ok := agg[cle]
		if !ok {
			a = &repository.AggregatDispatchJour{
				Jour:      jour,
				MagasinID: *d.MagasinDestinationID,
				ProduitID: d.ProduitID,
			}
			if m, okm := r.s.Magasins[a.MagasinID]; okm {
				a.MagasinNom = m.Nom
			}
			if p, okp := r.s.Produits[a.ProduitID]; okp {
				a.ProduitNom = p.Nom
				a.ProduitReference = p.Reference
			}
			agg[cle] = a
		}
		a.Quantite = a.Quantite.Add(d.QuantiteTotale)
	}
	return triAggregatsDispatch(agg), nil
}

func triAggregatsDispatch(agg map[string]*repository.AggregatDispatchJour) []*repository.AggregatDispatchJour {
	cles := make([]string, 0, len(agg))
	for cle := range agg {
		cles = append(cles, cle)
	}
	sort.Strings(cles)
	resultat := make([]*repository.AggregatDispatchJour, 0, len(agg))
	for _, cle := range cles {
		resultat = append(resultat, agg[cle])
	}
	return resultat
}

// RotationRepo dépôt de rotations en mémoire.
type RotationRepo struct{ s *Store }

func (r *RotationRepo) Create(_ context.Context, rot *entity.Rotation) error {
	copie := *rot
	r.s.Rotations[rot.ID] = &copie
	return nil
}

func (r *RotationRepo) GetByID(_ context.Context, id string) (*entity.Rotation, error) {
	rot, ok := r.s.Rotations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *rot
	return &copie, nil
}

func (r *RotationRepo) GetForUpdate(ctx context.Context, id string) (*entity.Rotation, error) {
	return r.GetByID(ctx, id)
}

func (r *RotationRepo) Update(_ context.Context, rot *entity.Rotation) error {
	if _, ok := r.s.Rotations[rot.ID]; !ok {
		return domain.ErrNotFound
	}
	copie := *rot
	r.s.Rotations[rot.ID] = &copie
	return nil
}

func (r *RotationRepo) ListByDispatch(_ context.Context, dispatchID string) ([]*entity.Rotation, error) {
	var rotations []*entity.Rotation
	for _, rot := range r.s.Rotations {
		if rot.DispatchID != dispatchID {
			continue
		}
		copie := *rot
		rotations = append(rotations, &copie)
	}
	sort.Slice(rotations, func(i, j int) bool {
		return rotations[i].NumeroRotation < rotations[j].NumeroRotation
	})
	return rotations, nil
}

func (r *RotationRepo) List(_ context.Context, f repository.FiltresRotation) ([]*repository.RotationDetail, error) {
	var details []*repository.RotationDetail
	for _, rot := range r.s.Rotations {
		if !r.correspond(rot, f) {
			continue
		}
		det := &repository.RotationDetail{Rotation: *rot}
		if c, ok := r.s.Chauffeurs[rot.ChauffeurID]; ok {
			det.ChauffeurNom = c.Nom
			det.NumeroCamion = c.NumeroCamion
		}
		if d, ok := r.s.Dispatches[rot.DispatchID]; ok {
			det.NumeroDispatch = d.NumeroDispatch
			if p, okp := r.s.Produits[d.ProduitID]; okp {
				det.ProduitNom = p.Nom
				det.ProduitReference = p.Reference
			}
			if m, okm := r.s.Magasins[d.MagasinSourceID]; okm {
				det.MagasinSourceNom = m.Nom
			}
			if d.MagasinDestinationID != nil {
				if m, okm := r.s.Magasins[*d.MagasinDestinationID]; okm {
					det.MagasinDestinationNom = m.Nom
				}
			}
		}
		details = append(details, det)
	}
	sort.Slice(details, func(i, j int) bool {
		if details[i].Rotation.DispatchID != details[j].Rotation.DispatchID {
			return details[i].Rotation.DispatchID < details[j].Rotation.DispatchID
		}
		return details[i].Rotation.NumeroRotation < details[j].Rotation.NumeroRotation
	})
	return details, nil
}

func (r *RotationRepo) correspond(rot *entity.Rotation, f repository.FiltresRotation) bool {
	if f.DispatchID != "" && rot.DispatchID != f.DispatchID {
		return false
	}
	if f.Statut != "" && rot.Statut != f.Statut {
		return false
	}
	if len(f.Statuts) > 0 {
		trouve := false
		for _, st := range f.Statuts {
			if rot.Statut == st {
				trouve = true
				break
			}
		}
		if !trouve {
			return false
		}
	}
	if f.MagasinDestinationID != "" {
		d, ok := r.s.Dispatches[rot.DispatchID]
		if !ok || d.MagasinDestinationID == nil || *d.MagasinDestinationID != f.MagasinDestinationID {
			return false
		}
	}
	if f.AvecEcartSeulement && (rot.Ecart == nil || rot.Ecart.IsZero()) {
		return false
	}
	if f.Date != nil {
		if rot.DateArrivee == nil {
			return false
		}
		a, b := rot.DateArrivee.UTC(), f.Date.UTC()
		if a.Year() != b.Year() || a.YearDay() != b.YearDay() {
			return false
		}
	}
	if f.DateDebut != nil && (rot.DateArrivee == nil || rot.DateArrivee.Before(*f.DateDebut)) {
		return false
	}
	if f.DateFin != nil && (rot.DateArrivee == nil || rot.DateArrivee.After(*f.DateFin)) {
		return false
	}
	return true
}

func (r *RotationRepo) SommeAllouee(_ context.Context, dispatchID string) (decimal.Decimal, error) {
	somme := decimal.Zero
	for _, rot := range r.s.Rotations {
		if rot.DispatchID == dispatchID && rot.Statut != entity.RotationAnnule {
			somme = somme.Add(rot.QuantitePrevue)
		}
	}
	return somme, nil
}

func (r *RotationRepo) ProchainNumero(_ context.Context, dispatchID string) (int, error) {
	max := 0
	for _, rot := range r.s.Rotations {
		if rot.DispatchID == dispatchID && rot.NumeroRotation > max {
			max = rot.NumeroRotation
		}
	}
	return max + 1, nil
}

func (r *RotationRepo) CountActives(_ context.Context, dispatchID string) (int, error) {
	n := 0
	for _, rot := range r.s.Rotations {
		if rot.DispatchID == dispatchID &&
			(rot.Statut == entity.RotationPlanifie || rot.Statut == entity.RotationEnTransit) {
			n++
		}
	}
	return n, nil
}

func (r *RotationRepo) StatsParChauffeur(_ context.Context, f repository.FiltresRotation) ([]*repository.StatsChauffeur, error) {
	parChauffeur := make(map[string]*repository.StatsChauffeur)
	for _, rot := range r.s.Rotations {
		if rot.Statut != entity.RotationLivre || rot.Ecart == nil || rot.Ecart.IsZero() {
			continue
		}
		stats, ok := parChauffeur[rot.ChauffeurID]
		if !ok {
			stats = &repository.StatsChauffeur{ChauffeurID: rot.ChauffeurID}
			if c, okc := r.s.Chauffeurs[rot.ChauffeurID]; okc {
				stats.ChauffeurNom = c.Nom
			}
			parChauffeur[rot.ChauffeurID] = stats
		}
		stats.NombreEcarts++
		stats.TotalEcart = stats.TotalEcart.Add(*rot.Ecart)
	}
	var resultat []*repository.StatsChauffeur
	for _, stats := range parChauffeur {
		stats.EcartMoyen = stats.TotalEcart.Div(decimal.NewFromInt(int64(stats.NombreEcarts))).Round(2)
		resultat = append(resultat, stats)
	}
	sort.Slice(resultat, func(i, j int) bool { return resultat[i].ChauffeurID < resultat[j].ChauffeurID })
	return resultat, nil
}

// MouvementRepo dépôt de mouvements en mémoire.
type MouvementRepo struct{ s *Store }

func (r *MouvementRepo) Create(_ context.Context, m *entity.MouvementStock) error {
	copie := *m
	r.s.Mouvements = append(r.s.Mouvements, &copie)
	return nil
}

func (r *MouvementRepo) List(_ context.Context, f repository.FiltresMouvement) ([]*repository.MouvementDetail, error) {
	var details []*repository.MouvementDetail
	for _, m := range r.s.Mouvements {
		if !correspondMouvement(m, f) {
			continue
		}
		det := &repository.MouvementDetail{Mouvement: *m}
		if p, ok := r.s.Produits[m.ProduitID]; ok {
			det.ProduitNom = p.Nom
			det.ProduitRef = p.Reference
		}
		if mag, ok := r.s.Magasins[m.MagasinID]; ok {
			det.MagasinNom = mag.Nom
		}
		details = append(details, det)
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Mouvement.DateMouvement.After(details[j].Mouvement.DateMouvement)
	})
	return details, nil
}

func (r *MouvementRepo) ListEntrees(_ context.Context, f repository.FiltresMouvement) ([]*entity.MouvementStock, error) {
	var entrees []*entity.MouvementStock
	for _, m := range r.s.Mouvements {
		if m.Type != entity.MouvementEntree || !correspondMouvement(m, f) {
			continue
		}
		copie := *m
		entrees = append(entrees, &copie)
	}
	sort.Slice(entrees, func(i, j int) bool {
		return entrees[i].DateMouvement.Before(entrees[j].DateMouvement)
	})
	return entrees, nil
}

func correspondMouvement(m *entity.MouvementStock, f repository.FiltresMouvement) bool {
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.ProduitID != "" && m.ProduitID != f.ProduitID {
		return false
	}
	if f.MagasinID != "" && m.MagasinID != f.MagasinID {
		return false
	}
	if f.DateDebut != nil && m.DateMouvement.Before(*f.DateDebut) {
		return false
	}
	if f.DateFin != nil && m.DateMouvement.After(*f.DateFin) {
		return false
	}
	return true
}

func (r *MouvementRepo) SommesParJour(_ context.Context, typ string, f repository.FiltresRapport) ([]*repository.AggregatMouvementJour, error) {
	agg := make(map[string]*repository.AggregatMouvementJour)
	for _, m := range r.s.Mouvements {
		if m.Type != typ {
			continue
		}
		if f.MagasinID != "" && m.MagasinID != f.MagasinID {
			continue
		}
		if f.ProduitID != "" && m.ProduitID != f.ProduitID {
			continue
		}
		if f.DateDebut != nil && m.DateMouvement.Before(*f.DateDebut) {
			continue
		}
		if f.DateFin != nil && m.DateMouvement.After(*f.DateFin) {
			continue
		}
		jour := m.DateMouvement.Truncate(24 * time.Hour)
		cle := jour.Format("2006-01-02") + "|" + m.MagasinID + "|" + m.ProduitID
		a, ok := agg[cle]
		if !ok {
			a = &repository.AggregatMouvementJour{
				Jour:      jour,
				MagasinID: m.MagasinID,
				ProduitID: m.ProduitID,
			}
			if mag, okm := r.s.Magasins[m.MagasinID]; okm {
				a.MagasinNom = mag.Nom
			}
			if p, okp := r.s.Produits[m.ProduitID]; okp {
				a.ProduitNom = p.Nom
				a.ProduitReference = p.Reference
			}
			agg[cle] = a
		}
		a.Quantite = a.Quantite.Add(m.Quantite)
	}
	cles := make([]string, 0, len(agg))
	for cle := range agg {
		cles = append(cles, cle)
	}
	sort.Strings(cles)
	resultat := make([]*repository.AggregatMouvementJour, 0, len(agg))
	for _, cle := range cles {
		resultat = append(resultat, agg[cle])
	}
	return resultat, nil
}

// LivraisonRepo dépôt de livraisons en mémoire.
type LivraisonRepo struct{ s *Store }

func (r *LivraisonRepo) Create(_ context.Context, l *entity.Livraison) error {
	copie := *l
	r.s.Livraisons[l.ID] = &copie
	return nil
}

func (r *LivraisonRepo) GetByID(_ context.Context, id string) (*entity.Livraison, error) {
	l, ok := r.s.Livraisons[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *l
	return &copie, nil
}

func (r *LivraisonRepo) List(_ context.Context, f repository.FiltresLivraison) ([]*repository.LivraisonDetail, error) {
	var details []*repository.LivraisonDetail
	for _, l := range r.s.Livraisons {
		if f.Statut != "" && l.Statut != f.Statut {
			continue
		}
		if f.MagasinID != "" && (l.MagasinID == nil || *l.MagasinID != f.MagasinID) {
			continue
		}
		if f.Transporteur != "" && !strings.EqualFold(l.Transporteur, f.Transporteur) {
			continue
		}
		if f.DateDebut != nil && l.DateLivraison.Before(*f.DateDebut) {
			continue
		}
		if f.DateFin != nil && l.DateLivraison.After(*f.DateFin) {
			continue
		}
		det := &repository.LivraisonDetail{Livraison: *l}
		if p, ok := r.s.Produits[l.ProduitID]; ok {
			det.ProduitNom = p.Nom
			det.ProduitRef = p.Reference
		}
		if l.MagasinID != nil {
			if m, ok := r.s.Magasins[*l.MagasinID]; ok {
				det.MagasinNom = m.Nom
			}
		}
		if l.ClientID != nil {
			if c, ok := r.s.Clients[*l.ClientID]; ok {
				det.ClientNom = c.Nom
			}
		}
		details = append(details, det)
	}
	sort.Slice(details, func(i, j int) bool {
		return details[i].Livraison.DateLivraison.Before(details[j].Livraison.DateLivraison)
	})
	return details, nil
}

func (r *LivraisonRepo) ListPeriode(_ context.Context, debut, fin *time.Time, magasinID string) ([]*entity.Livraison, error) {
	var livraisons []*entity.Livraison
	for _, l := range r.s.Livraisons {
		if l.Statut == entity.LivraisonAnnulee {
			continue
		}
		if magasinID != "" && (l.MagasinID == nil || *l.MagasinID != magasinID) {
			continue
		}
		if debut != nil && l.DateLivraison.Before(*debut) {
			continue
		}
		if fin != nil && l.DateLivraison.After(*fin) {
			continue
		}
		copie := *l
		livraisons = append(livraisons, &copie)
	}
	sort.Slice(livraisons, func(i, j int) bool {
		return livraisons[i].DateLivraison.Before(livraisons[j].DateLivraison)
	})
	return livraisons, nil
}

// ProduitRepo dépôt de produits en mémoire.
type ProduitRepo struct{ S *Store }

func (r *ProduitRepo) GetByID(_ context.Context, id string) (*entity.Produit, error) {
	p, ok := r.S.Produits[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *p
	return &copie, nil
}

func (r *ProduitRepo) GetByReference(_ context.Context, reference string) (*entity.Produit, error) {
	for _, p := range r.S.Produits {
		if p.Reference == reference {
			copie := *p
			return &copie, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProduitRepo) List(_ context.Context) ([]*entity.Produit, error) {
	var produits []*entity.Produit
	for _, p := range r.S.Produits {
		copie := *p
		produits = append(produits, &copie)
	}
	sort.Slice(produits, func(i, j int) bool { return produits[i].Reference < produits[j].Reference })
	return produits, nil
}

// MagasinRepo dépôt de magasins en mémoire.
type MagasinRepo struct{ S *Store }

func (r *MagasinRepo) GetByID(_ context.Context, id string) (*entity.Magasin, error) {
	m, ok := r.S.Magasins[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *m
	return &copie, nil
}

func (r *MagasinRepo) List(_ context.Context) ([]*entity.Magasin, error) {
	var magasins []*entity.Magasin
	for _, m := range r.S.Magasins {
		copie := *m
		magasins = append(magasins, &copie)
	}
	sort.Slice(magasins, func(i, j int) bool { return magasins[i].Nom < magasins[j].Nom })
	return magasins, nil
}

// ClientRepo dépôt de clients en mémoire.
type ClientRepo struct{ S *Store }

func (r *ClientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	c, ok := r.S.Clients[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *c
	return &copie, nil
}

func (r *ClientRepo) List(_ context.Context) ([]*entity.Client, error) {
	var clients []*entity.Client
	for _, c := range r.S.Clients {
		copie := *c
		clients = append(clients, &copie)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].Nom < clients[j].Nom })
	return clients, nil
}

// ChauffeurRepo dépôt de chauffeurs en mémoire.
type ChauffeurRepo struct{ S *Store }

func (r *ChauffeurRepo) GetByID(_ context.Context, id string) (*entity.Chauffeur, error) {
	c, ok := r.S.Chauffeurs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *c
	return &copie, nil
}

func (r *ChauffeurRepo) ListActifs(_ context.Context) ([]*entity.Chauffeur, error) {
	var chauffeurs []*entity.Chauffeur
	for _, c := range r.S.Chauffeurs {
		if c.Statut != entity.ChauffeurActif {
			continue
		}
		copie := *c
		chauffeurs = append(chauffeurs, &copie)
	}
	sort.Slice(chauffeurs, func(i, j int) bool { return chauffeurs[i].Nom < chauffeurs[j].Nom })
	return chauffeurs, nil
}

func (r *ChauffeurRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Chauffeur, error) {
	chauffeurs := make([]*entity.Chauffeur, 0, len(ids))
	for _, id := range ids {
		c, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		chauffeurs = append(chauffeurs, c)
	}
	return chauffeurs, nil
}

// UtilisateurRepo dépôt d'utilisateurs en mémoire.
type UtilisateurRepo struct{ S *Store }

func (r *UtilisateurRepo) GetByID(_ context.Context, id string) (*entity.Utilisateur, error) {
	u, ok := r.S.Utilisateurs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copie := *u
	return &copie, nil
}

func (r *UtilisateurRepo) GetByEmail(_ context.Context, email string) (*entity.Utilisateur, error) {
	for _, u := range r.S.Utilisateurs {
		if strings.EqualFold(u.Email, email) {
			copie := *u
			return &copie, nil
		}
	}
	return nil, domain.ErrNotFound
}
