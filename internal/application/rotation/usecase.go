// Package rotation porte l'allocation persistée des rotations et leur cycle de vie:
// planifie -> en_transit -> {livre, manquant}; planifie -> annule.
// Chaque transition est une transaction courte; aucun verrou n'est tenu pendant
// le transit physique du camion.
package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/msylla/tonnage-api/internal/application/ports"
	appstock "github.com/msylla/tonnage-api/internal/application/stock"
	"github.com/msylla/tonnage-api/internal/domain"
	"github.com/msylla/tonnage-api/internal/domain/allocation"
	"github.com/msylla/tonnage-api/internal/domain/entity"
	"github.com/msylla/tonnage-api/internal/domain/repository"
)

// UseCase gère les rotations d'un dispatch.
type UseCase struct {
	txRunner   ports.TxRunner
	ledger     *appstock.Ledger
	rotations  repository.RotationRepository
	dispatches repository.DispatchRepository
	chauffeurs repository.ChauffeurRepository
}

// NewUseCase construit le cas d'usage.
func NewUseCase(
	txRunner ports.TxRunner,
	ledger *appstock.Ledger,
	rotations repository.RotationRepository,
	dispatches repository.DispatchRepository,
	chauffeurs repository.ChauffeurRepository,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		ledger:     ledger,
		rotations:  rotations,
		dispatches: dispatches,
		chauffeurs: chauffeurs,
	}
}

// Calculer propose un plan de rotations couvrant quantite avec les chauffeurs donnés
// (tous les actifs si la liste est vide). Les propositions ne sont pas persistées.
func (uc *UseCase) Calculer(ctx context.Context, quantite decimal.Decimal, chauffeurIDs []string) ([]allocation.Proposition, error) {
	var (
		candidats []*entity.Chauffeur
		err       error
	)
	if len(chauffeurIDs) > 0 {
		candidats, err = uc.chauffeurs.ListByIDs(ctx, chauffeurIDs)
	} else {
		candidats, err = uc.chauffeurs.ListActifs(ctx)
	}
	if err != nil {
		return nil, err
	}
	if len(candidats) == 0 {
		return nil, domain.ErrValidation
	}
	flotte := allocation.CamionsDepuisChauffeurs(candidats)

	// L'allocateur n'utilise chaque camion qu'une fois; on répète la flotte sur
	// autant de passes qu'il en faut pour couvrir la quantité.
	totale := decimal.Zero
	for _, c := range flotte {
		totale = totale.Add(c.Capacite)
	}
	if !totale.GreaterThan(decimal.Zero) {
		return nil, &domain.CapaciteInsuffisanteError{CapaciteTotale: totale, Demandee: quantite}
	}
	passes := int(quantite.Div(totale).Ceil().IntPart())
	camions := make([]allocation.Camion, 0, len(flotte)*passes)
	for i := 0; i < passes; i++ {
		camions = append(camions, flotte...)
	}
	return allocation.CalculerRotations(quantite, camions)
}

// AjouterInput entrée d'ajout d'une rotation à un dispatch.
type AjouterInput struct {
	ChauffeurID    string
	QuantitePrevue decimal.Decimal
	Observations   string
}

// Ajouter rattache une rotation planifiée à un dispatch. La quantité prévue est
// bornée par la capacité du camion, et la somme des rotations non annulées ne doit
// pas dépasser la quantité totale du dispatch (QuotaDepasseError{QuotaRestant} sinon).
// Le dispatch est verrouillé le temps du contrôle de quota.
func (uc *UseCase) Ajouter(ctx context.Context, dispatchID string, in AjouterInput) (*entity.Rotation, error) {
	if in.ChauffeurID == "" || !in.QuantitePrevue.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	chauffeur, err := uc.chauffeurs.GetByID(ctx, in.ChauffeurID)
	if err != nil {
		return nil, err
	}
	if in.QuantitePrevue.GreaterThan(chauffeur.CapaciteCamion) {
		return nil, &domain.CapaciteInsuffisanteError{
			CapaciteTotale: chauffeur.CapaciteCamion,
			Demandee:       in.QuantitePrevue,
		}
	}

	var rot *entity.Rotation
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		d, err := r.Dispatches.GetForUpdate(ctx, dispatchID)
		if err != nil {
			return err
		}
		if !d.EstModifiable() {
			return domain.ErrTransitionInvalide
		}
		rot, err = uc.creerRotation(ctx, r, d, chauffeur, in.QuantitePrevue, in.Observations)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rot, nil
}

// PropositionInput une rotation proposée à persister en lot.
type PropositionInput struct {
	ChauffeurID    string
	QuantitePrevue decimal.Decimal
	Observations   string
}

// CreerMultiples persiste un lot de rotations dans une transaction unique.
// La moindre violation de capacité ou de quota rejette le lot entier:
// aucune persistance partielle.
func (uc *UseCase) CreerMultiples(ctx context.Context, dispatchID string, propositions []PropositionInput) ([]*entity.Rotation, error) {
	if len(propositions) == 0 {
		return nil, domain.ErrValidation
	}

	chauffeurParID := make(map[string]*entity.Chauffeur, len(propositions))
	for _, p := range propositions {
		if p.ChauffeurID == "" || !p.QuantitePrevue.GreaterThan(decimal.Zero) {
			return nil, domain.ErrValidation
		}
		if _, ok := chauffeurParID[p.ChauffeurID]; ok {
			continue
		}
		chauffeur, err := uc.chauffeurs.GetByID(ctx, p.ChauffeurID)
		if err != nil {
			return nil, err
		}
		chauffeurParID[p.ChauffeurID] = chauffeur
	}

	creees := make([]*entity.Rotation, 0, len(propositions))
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		d, err := r.Dispatches.GetForUpdate(ctx, dispatchID)
		if err != nil {
			return err
		}
		if !d.EstModifiable() {
			return domain.ErrTransitionInvalide
		}
		for _, p := range propositions {
			chauffeur := chauffeurParID[p.ChauffeurID]
			if p.QuantitePrevue.GreaterThan(chauffeur.CapaciteCamion) {
				return &domain.CapaciteInsuffisanteError{
					CapaciteTotale: chauffeur.CapaciteCamion,
					Demandee:       p.QuantitePrevue,
				}
			}
			rot, err := uc.creerRotation(ctx, r, d, chauffeur, p.QuantitePrevue, p.Observations)
			if err != nil {
				return err
			}
			creees = append(creees, rot)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return creees, nil
}

// creerRotation contrôle le quota restant puis insère la rotation planifiée.
// À appeler avec le dispatch déjà verrouillé.
func (uc *UseCase) creerRotation(ctx context.Context, r ports.Repos, d *entity.Dispatch, chauffeur *entity.Chauffeur, qte decimal.Decimal, observations string) (*entity.Rotation, error) {
	allouee, err := r.Rotations.SommeAllouee(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	restant := d.QuantiteTotale.Sub(allouee)
	if qte.GreaterThan(restant) {
		return nil, &domain.QuotaDepasseError{QuotaRestant: restant}
	}
	numero, err := r.Rotations.ProchainNumero(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rot := &entity.Rotation{
		ID:             uuid.New().String(),
		DispatchID:     d.ID,
		NumeroRotation: numero,
		ChauffeurID:    chauffeur.ID,
		CapaciteCamion: chauffeur.CapaciteCamion,
		QuantitePrevue: qte,
		Statut:         entity.RotationPlanifie,
		Observations:   observations,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.Rotations.Create(ctx, rot); err != nil {
		return nil, err
	}
	return rot, nil
}

// Demarrer fait partir le camion: planifie -> en_transit. Aucun débit de stock
// supplémentaire: la réservation posée à la création du dispatch modélise déjà
// la quantité engagée à quitter la source. Le dispatch passe en_cours au premier départ.
func (uc *UseCase) Demarrer(ctx context.Context, rotationID string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		rot, err := r.Rotations.GetForUpdate(ctx, rotationID)
		if err != nil {
			return err
		}
		if rot.Statut != entity.RotationPlanifie {
			return domain.ErrTransitionInvalide
		}
		now := time.Now()
		rot.Statut = entity.RotationEnTransit
		rot.DateDepart = &now
		rot.UpdatedAt = now
		if err := r.Rotations.Update(ctx, rot); err != nil {
			return err
		}
		d, err := r.Dispatches.GetForUpdate(ctx, rot.DispatchID)
		if err != nil {
			return err
		}
		if d.Statut == entity.DispatchEnAttente {
			return r.Dispatches.UpdateStatut(ctx, d.ID, entity.DispatchEnCours)
		}
		return nil
	})
}

// ResultatReception synthèse retournée après réception d'une rotation.
type ResultatReception struct {
	QuantitePrevue decimal.Decimal
	QuantiteLivree decimal.Decimal
	Ecart          decimal.Decimal
	StatutDispatch string
}

// Receptionner confirme l'arrivée d'une rotation: en_transit -> livre, quel que soit
// le manquant constaté. L'écart (prévue - livrée) est figé une seule fois; le magasin
// source voit sa réservation soldée et une sortie tracée; le magasin destination,
// s'il existe, est crédité d'exactement la quantité livrée avec une entrée tracée.
// Un second appel sur une rotation terminale échoue en ErrTransitionInvalide:
// jamais de double crédit.
func (uc *UseCase) Receptionner(ctx context.Context, rotationID string, quantiteLivree decimal.Decimal, observations, receptionPar string) (*ResultatReception, error) {
	if quantiteLivree.LessThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	var resultat *ResultatReception
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		rot, err := r.Rotations.GetForUpdate(ctx, rotationID)
		if err != nil {
			return err
		}
		if rot.Statut != entity.RotationEnTransit {
			return domain.ErrTransitionInvalide
		}
		d, err := r.Dispatches.GetForUpdate(ctx, rot.DispatchID)
		if err != nil {
			return err
		}

		now := time.Now()
		ecart := rot.QuantitePrevue.Sub(quantiteLivree)
		rot.Statut = entity.RotationLivre
		rot.QuantiteLivree = &quantiteLivree
		rot.Ecart = &ecart
		rot.DateArrivee = &now
		rot.ReceptionPar = &receptionPar
		if observations != "" {
			rot.Observations = observations
		}
		rot.UpdatedAt = now
		if err := r.Rotations.Update(ctx, rot); err != nil {
			return err
		}

		reference := referenceRotation(d, rot)
		if err := uc.solderSource(ctx, r, d, rot, reference, receptionPar, now); err != nil {
			return err
		}
		if d.MagasinDestinationID != nil && quantiteLivree.GreaterThan(decimal.Zero) {
			if err := uc.ledger.Crediter(ctx, r.Stocks, d.ProduitID, *d.MagasinDestinationID, quantiteLivree); err != nil {
				return err
			}
			mouvement := &entity.MouvementStock{
				ID:                uuid.New().String(),
				Type:              entity.MouvementEntree,
				ProduitID:         d.ProduitID,
				MagasinID:         *d.MagasinDestinationID,
				Quantite:          quantiteLivree,
				DateMouvement:     now,
				ReferenceDocument: reference,
				Description:       "Réception de rotation",
				CreatedBy:         receptionPar,
				CreatedAt:         now,
			}
			if err := r.Mouvements.Create(ctx, mouvement); err != nil {
				return err
			}
		}

		statutDispatch, err := uc.recalculerStatutDispatch(ctx, r, d)
		if err != nil {
			return err
		}
		resultat = &ResultatReception{
			QuantitePrevue: rot.QuantitePrevue,
			QuantiteLivree: quantiteLivree,
			Ecart:          ecart,
			StatutDispatch: statutDispatch,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultat, nil
}

// MarquerManquant déclare une cargaison entièrement perdue ou refusée:
// en_transit -> manquant, quantité livrée zéro, aucun crédit destination.
func (uc *UseCase) MarquerManquant(ctx context.Context, rotationID, observations, receptionPar string) (*ResultatReception, error) {
	var resultat *ResultatReception
	err := uc.txRunner.Run(ctx, func(r ports.Repos) error {
		rot, err := r.Rotations.GetForUpdate(ctx, rotationID)
		if err != nil {
			return err
		}
		if rot.Statut != entity.RotationEnTransit {
			return domain.ErrTransitionInvalide
		}
		d, err := r.Dispatches.GetForUpdate(ctx, rot.DispatchID)
		if err != nil {
			return err
		}

		now := time.Now()
		zero := decimal.Zero
		ecart := rot.QuantitePrevue
		rot.Statut = entity.RotationManquant
		rot.QuantiteLivree = &zero
		rot.Ecart = &ecart
		rot.DateArrivee = &now
		rot.ReceptionPar = &receptionPar
		if observations != "" {
			rot.Observations = observations
		}
		rot.UpdatedAt = now
		if err := r.Rotations.Update(ctx, rot); err != nil {
			return err
		}

		if err := uc.solderSource(ctx, r, d, rot, referenceRotation(d, rot), receptionPar, now); err != nil {
			return err
		}
		statutDispatch, err := uc.recalculerStatutDispatch(ctx, r, d)
		if err != nil {
			return err
		}
		resultat = &ResultatReception{
			QuantitePrevue: rot.QuantitePrevue,
			QuantiteLivree: zero,
			Ecart:          ecart,
			StatutDispatch: statutDispatch,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultat, nil
}

// Annuler annule une rotation encore planifiée. Son quota retourne au pool non
// alloué du dispatch; le ledger n'est pas touché, rien n'a quitté la source.
func (uc *UseCase) Annuler(ctx context.Context, rotationID string) error {
	return uc.txRunner.Run(ctx, func(r ports.Repos) error {
		rot, err := r.Rotations.GetForUpdate(ctx, rotationID)
		if err != nil {
			return err
		}
		if rot.Statut != entity.RotationPlanifie {
			return domain.ErrTransitionInvalide
		}
		rot.Statut = entity.RotationAnnule
		rot.UpdatedAt = time.Now()
		return r.Rotations.Update(ctx, rot)
	})
}

// solderSource solde la réservation source à hauteur de la quantité prévue et
// trace la sortie correspondante: la marchandise a physiquement quitté le magasin.
func (uc *UseCase) solderSource(ctx context.Context, r ports.Repos, d *entity.Dispatch, rot *entity.Rotation, reference, par string, now time.Time) error {
	if err := uc.ledger.ConsommerReservation(ctx, r.Stocks, d.ProduitID, d.MagasinSourceID, rot.QuantitePrevue); err != nil {
		return err
	}
	mouvement := &entity.MouvementStock{
		ID:                uuid.New().String(),
		Type:              entity.MouvementSortie,
		ProduitID:         d.ProduitID,
		MagasinID:         d.MagasinSourceID,
		Quantite:          rot.QuantitePrevue,
		DateMouvement:     now,
		ReferenceDocument: reference,
		Description:       "Sortie sur rotation",
		CreatedBy:         par,
		CreatedAt:         now,
	}
	return r.Mouvements.Create(ctx, mouvement)
}

// recalculerStatutDispatch passe le dispatch en termine quand toutes ses rotations
// non annulées sont terminales et que la totalité du quota est allouée; sinon il
// reste en_cours. Retourne le statut résultant.
func (uc *UseCase) recalculerStatutDispatch(ctx context.Context, r ports.Repos, d *entity.Dispatch) (string, error) {
	actives, err := r.Rotations.CountActives(ctx, d.ID)
	if err != nil {
		return "", err
	}
	if actives > 0 {
		if d.Statut != entity.DispatchEnCours {
			if err := r.Dispatches.UpdateStatut(ctx, d.ID, entity.DispatchEnCours); err != nil {
				return "", err
			}
		}
		return entity.DispatchEnCours, nil
	}
	allouee, err := r.Rotations.SommeAllouee(ctx, d.ID)
	if err != nil {
		return "", err
	}
	statut := entity.DispatchEnCours
	if allouee.GreaterThanOrEqual(d.QuantiteTotale) {
		statut = entity.DispatchTermine
	}
	if statut != d.Statut {
		if err := r.Dispatches.UpdateStatut(ctx, d.ID, statut); err != nil {
			return "", err
		}
	}
	return statut, nil
}

// Lister retourne les rotations filtrées, enrichies des libellés joints.
func (uc *UseCase) Lister(ctx context.Context, f repository.FiltresRotation) ([]*repository.RotationDetail, error) {
	return uc.rotations.List(ctx, f)
}

// ListerEnTransit retourne les rotations en attente d'arrivée (planifiées ou en transit).
func (uc *UseCase) ListerEnTransit(ctx context.Context, magasinID string) ([]*repository.RotationDetail, error) {
	return uc.rotations.List(ctx, repository.FiltresRotation{
		MagasinDestinationID: magasinID,
		Statuts:              []string{entity.RotationPlanifie, entity.RotationEnTransit},
	})
}

// Ecarts retourne les rotations livrées avec écart et les statistiques par chauffeur.
func (uc *UseCase) Ecarts(ctx context.Context, f repository.FiltresRotation) ([]*repository.RotationDetail, []*repository.StatsChauffeur, error) {
	f.Statut = entity.RotationLivre
	f.AvecEcartSeulement = true
	lignes, err := uc.rotations.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	stats, err := uc.rotations.StatsParChauffeur(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return lignes, stats, nil
}

// referenceRotation construit la référence documentaire propagée jusqu'aux mouvements,
// ex: DSP-20250115-7F3A2C-R2. Elle permet un rapprochement exact ultérieur.
func referenceRotation(d *entity.Dispatch, rot *entity.Rotation) string {
	return fmt.Sprintf("%s-R%d", d.NumeroDispatch, rot.NumeroRotation)
}
