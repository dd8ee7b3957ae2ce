package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fightpurse/fightpursed/internal/core/condition"
	"github.com/fightpurse/fightpursed/internal/core/drops"
	"github.com/fightpurse/fightpursed/internal/core/rippletime"
	"github.com/fightpurse/fightpursed/internal/domain"
	"github.com/fightpurse/fightpursed/internal/storage/relationaldb"
)

// CreateBoutParams carries everything needed to plan one bout and its four
// escrows.
type CreateBoutParams struct {
	PromoterUserID       uuid.UUID
	FighterAUserID       uuid.UUID
	FighterBUserID       uuid.UUID
	EventDatetimeUTC     time.Time
	PromoterOwnerAddress string
	FighterADestination  string
	FighterBDestination  string
	ShowADrops           drops.Drops
	ShowBDrops           drops.Drops
	BonusADrops          drops.Drops
	BonusBDrops          drops.Drops
}

// BoutService plans bouts.
type BoutService struct {
	uow relationaldb.UnitOfWork
	now func() time.Time
}

func NewBoutService(uow relationaldb.UnitOfWork) *BoutService {
	return &BoutService{uow: uow, now: utcNow}
}

// CreateBoutDraft records a draft bout with its four planned escrows. Both
// bonus escrows get a fresh preimage; the condition goes on the escrow plan
// and the fulfillment is held server side until the winner is known.
func (s *BoutService) CreateBoutDraft(ctx context.Context, params CreateBoutParams) (*domain.Bout, []*domain.Escrow, error) {
	if params.FighterAUserID == params.FighterBUserID {
		return nil, nil, domain.ErrFightersNotDistinct
	}

	finishAfter, err := rippletime.ComputeFinishAfter(params.EventDatetimeUTC)
	if err != nil {
		return nil, nil, err
	}
	cancelAfter, err := rippletime.ComputeBonusCancelAfter(params.EventDatetimeUTC)
	if err != nil {
		return nil, nil, err
	}
	finishAfterRipple, err := rippletime.ToRippleEpoch(finishAfter)
	if err != nil {
		return nil, nil, err
	}
	cancelAfterRipple, err := rippletime.ToRippleEpoch(cancelAfter)
	if err != nil {
		return nil, nil, err
	}

	bonusAFulfillment, bonusACondition, err := newBonusCondition()
	if err != nil {
		return nil, nil, err
	}
	bonusBFulfillment, bonusBCondition, err := newBonusCondition()
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	bout := &domain.Bout{
		ID:               uuid.New(),
		PromoterUserID:   params.PromoterUserID,
		FighterAUserID:   params.FighterAUserID,
		FighterBUserID:   params.FighterBUserID,
		EventDatetimeUTC: params.EventDatetimeUTC,
		FinishAfterUTC:   finishAfter,
		CancelAfterUTC:   cancelAfter,
		ShowADrops:       params.ShowADrops,
		ShowBDrops:       params.ShowBDrops,
		BonusADrops:      params.BonusADrops,
		BonusBDrops:      params.BonusBDrops,
		Status:           domain.BoutDraft,
		CreatedAt:        now,
	}
	if err := s.uow.Bouts().Create(ctx, bout); err != nil {
		return nil, nil, err
	}

	escrows := []*domain.Escrow{
		{
			ID:                 uuid.New(),
			BoutID:             bout.ID,
			Kind:               domain.KindShowA,
			Status:             domain.EscrowPlanned,
			OwnerAddress:       params.PromoterOwnerAddress,
			DestinationAddress: params.FighterADestination,
			AmountDrops:        params.ShowADrops,
			FinishAfterRipple:  finishAfterRipple,
			CreatedAt:          now,
		},
		{
			ID:                 uuid.New(),
			BoutID:             bout.ID,
			Kind:               domain.KindShowB,
			Status:             domain.EscrowPlanned,
			OwnerAddress:       params.PromoterOwnerAddress,
			DestinationAddress: params.FighterBDestination,
			AmountDrops:        params.ShowBDrops,
			FinishAfterRipple:  finishAfterRipple,
			CreatedAt:          now,
		},
		{
			ID:                   uuid.New(),
			BoutID:               bout.ID,
			Kind:                 domain.KindBonusA,
			Status:               domain.EscrowPlanned,
			OwnerAddress:         params.PromoterOwnerAddress,
			DestinationAddress:   params.FighterADestination,
			AmountDrops:          params.BonusADrops,
			FinishAfterRipple:    finishAfterRipple,
			CancelAfterRipple:    &cancelAfterRipple,
			ConditionHex:         &bonusACondition,
			EncryptedPreimageHex: &bonusAFulfillment,
			CreatedAt:            now,
		},
		{
			ID:                   uuid.New(),
			BoutID:               bout.ID,
			Kind:                 domain.KindBonusB,
			Status:               domain.EscrowPlanned,
			OwnerAddress:         params.PromoterOwnerAddress,
			DestinationAddress:   params.FighterBDestination,
			AmountDrops:          params.BonusBDrops,
			FinishAfterRipple:    finishAfterRipple,
			CancelAfterRipple:    &cancelAfterRipple,
			ConditionHex:         &bonusBCondition,
			EncryptedPreimageHex: &bonusBFulfillment,
			CreatedAt:            now,
		},
	}
	for _, escrow := range escrows {
		if err := s.uow.Escrows().Create(ctx, escrow); err != nil {
			return nil, nil, err
		}
	}

	err = appendAudit(ctx, s.uow.AuditLogs(), &params.PromoterUserID,
		"bout_create", "bout", bout.ID.String(), domain.OutcomeSuccess,
		map[string]any{"status": string(bout.Status)}, now)
	if err != nil {
		return nil, nil, err
	}
	return bout, escrows, nil
}

func newBonusCondition() (fulfillmentHex, conditionHex string, err error) {
	preimage, err := condition.GeneratePreimageHex()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate preimage: %w", err)
	}
	fulfillmentHex, err = condition.MakeFulfillmentHex(preimage)
	if err != nil {
		return "", "", err
	}
	conditionHex, err = condition.MakeConditionHex(fulfillmentHex)
	if err != nil {
		return "", "", err
	}
	return fulfillmentHex, conditionHex, nil
}
