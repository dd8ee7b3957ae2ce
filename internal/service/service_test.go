package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fightpurse/fightpursed/internal/core/confirm"
	"github.com/fightpurse/fightpursed/internal/core/drops"
	"github.com/fightpurse/fightpursed/internal/core/taxonomy"
	"github.com/fightpurse/fightpursed/internal/domain"
)

var eventTime = time.Date(2026, 9, 12, 20, 0, 0, 0, time.UTC)

func draftBoutParams() CreateBoutParams {
	return CreateBoutParams{
		PromoterUserID:       uuid.New(),
		FighterAUserID:       uuid.New(),
		FighterBUserID:       uuid.New(),
		EventDatetimeUTC:     eventTime,
		PromoterOwnerAddress: "rPromoterOwner",
		FighterADestination:  "rFighterA",
		FighterBDestination:  "rFighterB",
		ShowADrops:           drops.Drops(10_000_000),
		ShowBDrops:           drops.Drops(8_000_000),
		BonusADrops:          drops.Drops(3_000_000),
		BonusBDrops:          drops.Drops(3_000_000),
	}
}

func createDraftBout(t *testing.T, uow *fakeUnitOfWork) *domain.Bout {
	t.Helper()
	bout, escrows, err := NewBoutService(uow).CreateBoutDraft(context.Background(), draftBoutParams())
	require.NoError(t, err)
	require.Len(t, escrows, 4)
	return bout
}

func createConfirmationFor(escrow *domain.Escrow, offerSequence int64) *confirm.CreateConfirmation {
	return &confirm.CreateConfirmation{
		TxHash:             "CREATEHASH" + string(escrow.Kind),
		OfferSequence:      offerSequence,
		Validated:          true,
		EngineResult:       "tesSUCCESS",
		OwnerAddress:       escrow.OwnerAddress,
		DestinationAddress: escrow.DestinationAddress,
		AmountDrops:        escrow.AmountDrops.Int64(),
		FinishAfterRipple:  escrow.FinishAfterRipple,
		CancelAfterRipple:  escrow.CancelAfterRipple,
		ConditionHex:       escrow.ConditionHex,
	}
}

func confirmAllCreates(t *testing.T, uow *fakeUnitOfWork, boutID uuid.UUID) {
	t.Helper()
	svc := NewEscrowService(uow)
	for i, kind := range domain.AllEscrowKinds {
		escrow, err := uow.Escrows().GetByBoutKind(context.Background(), boutID, kind)
		require.NoError(t, err)
		_, _, err = svc.ConfirmEscrowCreate(context.Background(), boutID, kind, createConfirmationFor(escrow, int64(100+i)))
		require.NoError(t, err)
	}
}

func payoutConfirmationFor(escrow *domain.Escrow, action confirm.PayoutAction, fulfillmentHex *string, closeTime int64) *confirm.PayoutConfirmation {
	txType := "EscrowFinish"
	if action == confirm.ActionCancel {
		txType = "EscrowCancel"
	}
	return &confirm.PayoutConfirmation{
		TxHash:          "CLOSEHASH" + string(escrow.Kind),
		Validated:       true,
		EngineResult:    "tesSUCCESS",
		TransactionType: txType,
		OwnerAddress:    escrow.OwnerAddress,
		OfferSequence:   *escrow.OfferSequence,
		CloseTimeRipple: closeTime,
		FulfillmentHex:  fulfillmentHex,
	}
}

func TestCreateBoutDraft_PlansFourEscrows(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout, escrows, err := NewBoutService(uow).CreateBoutDraft(context.Background(), draftBoutParams())
	require.NoError(t, err)

	assert.Equal(t, domain.BoutDraft, bout.Status)
	assert.Equal(t, bout.EventDatetimeUTC.Add(2*time.Hour), bout.FinishAfterUTC)
	assert.Equal(t, bout.EventDatetimeUTC.Add(7*24*time.Hour), bout.CancelAfterUTC)

	byKind := map[domain.EscrowKind]*domain.Escrow{}
	for _, escrow := range escrows {
		byKind[escrow.Kind] = escrow
		assert.Equal(t, domain.EscrowPlanned, escrow.Status)
		assert.Equal(t, "rPromoterOwner", escrow.OwnerAddress)
	}
	require.Len(t, byKind, 4)

	for _, kind := range []domain.EscrowKind{domain.KindShowA, domain.KindShowB} {
		assert.Nil(t, byKind[kind].CancelAfterRipple)
		assert.Nil(t, byKind[kind].ConditionHex)
	}
	for _, kind := range []domain.EscrowKind{domain.KindBonusA, domain.KindBonusB} {
		escrow := byKind[kind]
		require.NotNil(t, escrow.CancelAfterRipple)
		require.NotNil(t, escrow.ConditionHex)
		require.NotNil(t, escrow.EncryptedPreimageHex)
		assert.Len(t, *escrow.ConditionHex, 64)
	}
	assert.NotEqual(t, *byKind[domain.KindBonusA].ConditionHex, *byKind[domain.KindBonusB].ConditionHex)
	assert.Contains(t, uow.auditActions(), "bout_create")
}

func TestCreateBoutDraft_RejectsSameFighter(t *testing.T) {
	uow := newFakeUnitOfWork()
	params := draftBoutParams()
	params.FighterBUserID = params.FighterAUserID
	_, _, err := NewBoutService(uow).CreateBoutDraft(context.Background(), params)
	assert.ErrorIs(t, err, domain.ErrFightersNotDistinct)
}

func TestPrepareEscrowCreatePayloads_DeterministicOrder(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)

	svc := NewEscrowService(uow)
	_, items, err := svc.PrepareEscrowCreatePayloads(context.Background(), bout.ID)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, kind := range domain.AllEscrowKinds {
		assert.Equal(t, kind, items[i].EscrowKind)
		assert.Equal(t, "EscrowCreate", items[i].UnsignedTx["TransactionType"])
	}
	assert.Equal(t, "10000000", items[0].UnsignedTx["Amount"])
	assert.Contains(t, items[2].UnsignedTx, "Condition")
	assert.NotContains(t, items[0].UnsignedTx, "Condition")

	// Retries rebuild identical payloads.
	_, again, err := svc.PrepareEscrowCreatePayloads(context.Background(), bout.ID)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestPrepareEscrowCreatePayloads_UnknownBout(t *testing.T) {
	uow := newFakeUnitOfWork()
	_, _, err := NewEscrowService(uow).PrepareEscrowCreatePayloads(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrBoutNotFound)
}

func TestConfirmEscrowCreate_PromotesBoutOnFourth(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	svc := NewEscrowService(uow)

	for i, kind := range domain.AllEscrowKinds {
		escrow, err := uow.Escrows().GetByBoutKind(context.Background(), bout.ID, kind)
		require.NoError(t, err)
		updatedBout, updated, err := svc.ConfirmEscrowCreate(
			context.Background(), bout.ID, kind, createConfirmationFor(escrow, int64(100+i)))
		require.NoError(t, err)

		assert.Equal(t, domain.EscrowCreated, updated.Status)
		require.NotNil(t, updated.OfferSequence)
		assert.Equal(t, int64(100+i), *updated.OfferSequence)
		if i < 3 {
			assert.Equal(t, domain.BoutDraft, updatedBout.Status)
		} else {
			assert.Equal(t, domain.BoutEscrowsCreated, updatedBout.Status)
		}
	}
	assert.Contains(t, uow.auditActions(), "bout_escrows_created")
}

func TestConfirmEscrowCreate_Replay_RejectedAfterCreated(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	svc := NewEscrowService(uow)

	escrow, err := uow.Escrows().GetByBoutKind(context.Background(), bout.ID, domain.KindShowA)
	require.NoError(t, err)
	conf := createConfirmationFor(escrow, 100)
	_, _, err = svc.ConfirmEscrowCreate(context.Background(), bout.ID, domain.KindShowA, conf)
	require.NoError(t, err)

	_, _, err = svc.ConfirmEscrowCreate(context.Background(), bout.ID, domain.KindShowA, conf)
	assert.ErrorIs(t, err, domain.ErrEscrowNotPlanned)
}

func TestConfirmEscrowCreate_FailureStampsClassifiedCode(t *testing.T) {
	cases := []struct {
		name         string
		mutate       func(c *confirm.CreateConfirmation)
		wantCode     string
	}{
		{
			name:     "amount mismatch",
			mutate:   func(c *confirm.CreateConfirmation) { c.AmountDrops++ },
			wantCode: taxonomy.CodeInvalidConfirmation,
		},
		{
			name:     "not validated",
			mutate:   func(c *confirm.CreateConfirmation) { c.Validated = false },
			wantCode: taxonomy.CodeConfirmationTimeout,
		},
		{
			name:     "tec result",
			mutate:   func(c *confirm.CreateConfirmation) { c.EngineResult = "tecNO_PERMISSION" },
			wantCode: taxonomy.CodeLedgerTecTem,
		},
		{
			name:     "non tes result",
			mutate:   func(c *confirm.CreateConfirmation) { c.EngineResult = "terRETRY" },
			wantCode: taxonomy.CodeLedgerNotSuccess,
		},
		{
			name:     "declined",
			mutate:   func(c *confirm.CreateConfirmation) { c.EngineResult = "user_declined"; c.Validated = false },
			wantCode: taxonomy.CodeSigningDeclined,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uow := newFakeUnitOfWork()
			bout := createDraftBout(t, uow)
			svc := NewEscrowService(uow)

			escrow, err := uow.Escrows().GetByBoutKind(context.Background(), bout.ID, domain.KindShowA)
			require.NoError(t, err)
			conf := createConfirmationFor(escrow, 100)
			tc.mutate(conf)

			_, _, err = svc.ConfirmEscrowCreate(context.Background(), bout.ID, domain.KindShowA, conf)
			var failure *domain.ConfirmationFailedError
			require.ErrorAs(t, err, &failure)
			assert.Equal(t, tc.wantCode, failure.Code)

			// Failure stamps never advance state.
			stored, err := uow.Escrows().GetByBoutKind(context.Background(), bout.ID, domain.KindShowA)
			require.NoError(t, err)
			assert.Equal(t, domain.EscrowPlanned, stored.Status)
			require.NotNil(t, stored.FailureCode)
			assert.Equal(t, tc.wantCode, *stored.FailureCode)
			require.NotNil(t, stored.FailureReason)
			assert.Contains(t, *stored.FailureReason, "validation_error=")

			storedBout, err := uow.Bouts().Get(context.Background(), bout.ID)
			require.NoError(t, err)
			assert.Equal(t, domain.BoutDraft, storedBout.Status)
		})
	}
}

func TestConfirmEscrowCreate_SuccessClearsPriorFailure(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	svc := NewEscrowService(uow)

	escrow, err := uow.Escrows().GetByBoutKind(context.Background(), bout.ID, domain.KindShowA)
	require.NoError(t, err)

	bad := createConfirmationFor(escrow, 100)
	bad.EngineResult = "tecUNFUNDED"
	_, _, err = svc.ConfirmEscrowCreate(context.Background(), bout.ID, domain.KindShowA, bad)
	require.Error(t, err)

	_, updated, err := svc.ConfirmEscrowCreate(context.Background(), bout.ID, domain.KindShowA, createConfirmationFor(escrow, 100))
	require.NoError(t, err)
	assert.Nil(t, updated.FailureCode)
	assert.Nil(t, updated.FailureReason)
}

func TestEnterBoutResult(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)

	admin := uuid.New()
	_, err := NewPayoutService(uow).EnterBoutResult(context.Background(), bout.ID, domain.WinnerA, admin)
	assert.ErrorIs(t, err, domain.ErrBoutNotInEscrowsCreatedState)

	confirmAllCreates(t, uow, bout.ID)
	updated, err := NewPayoutService(uow).EnterBoutResult(context.Background(), bout.ID, domain.WinnerA, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.BoutResultEntered, updated.Status)
	require.NotNil(t, updated.Winner)
	assert.Equal(t, domain.WinnerA, *updated.Winner)
}

func TestPreparePayoutPayloads_PlanForWinnerA(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	confirmAllCreates(t, uow, bout.ID)
	_, err := NewPayoutService(uow).EnterBoutResult(context.Background(), bout.ID, domain.WinnerA, uuid.New())
	require.NoError(t, err)

	_, items, err := NewPayoutService(uow).PreparePayoutPayloads(context.Background(), bout.ID)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, domain.KindShowA, items[0].EscrowKind)
	assert.Equal(t, confirm.ActionFinish, items[0].Action)
	assert.Equal(t, domain.KindShowB, items[1].EscrowKind)
	assert.Equal(t, domain.KindBonusA, items[2].EscrowKind)
	assert.Equal(t, confirm.ActionFinish, items[2].Action)
	assert.Contains(t, items[2].UnsignedTx, "Fulfillment")
	assert.Equal(t, domain.KindBonusB, items[3].EscrowKind)
	assert.Equal(t, confirm.ActionCancel, items[3].Action)
	assert.Equal(t, "EscrowCancel", items[3].UnsignedTx["TransactionType"])
	assert.NotContains(t, items[0].UnsignedTx, "Fulfillment")
}

func TestConfirmPayout_FullSettlementClosesBout(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	confirmAllCreates(t, uow, bout.ID)
	_, err := NewPayoutService(uow).EnterBoutResult(context.Background(), bout.ID, domain.WinnerB, uuid.New())
	require.NoError(t, err)

	svc := NewPayoutService(uow)
	ctx := context.Background()

	finish := func(kind domain.EscrowKind, fulfillment *string, closeTime int64) (*domain.Bout, *domain.Escrow) {
		escrow, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, kind)
		require.NoError(t, err)
		updatedBout, updated, err := svc.ConfirmPayout(ctx, bout.ID, kind,
			payoutConfirmationFor(escrow, confirm.ActionFinish, fulfillment, closeTime))
		require.NoError(t, err)
		return updatedBout, updated
	}

	showA, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, domain.KindShowA)
	require.NoError(t, err)
	closeTime := showA.FinishAfterRipple + 60

	updatedBout, updated := finish(domain.KindShowA, nil, closeTime)
	assert.Equal(t, domain.EscrowFinished, updated.Status)
	assert.Equal(t, domain.BoutPayoutsInProgress, updatedBout.Status)

	updatedBout, _ = finish(domain.KindShowB, nil, closeTime)
	assert.Equal(t, domain.BoutPayoutsInProgress, updatedBout.Status)

	// Winner is B, so bonus_b finishes with its fulfillment and closes the
	// bout before the loser bonus cancel lands.
	bonusB, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, domain.KindBonusB)
	require.NoError(t, err)
	updatedBout, _ = finish(domain.KindBonusB, bonusB.EncryptedPreimageHex, closeTime)
	assert.Equal(t, domain.BoutClosed, updatedBout.Status)
	assert.Contains(t, uow.auditActions(), "bout_closed")
}

func TestConfirmPayout_LoserBonusCancelAfterClose(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	confirmAllCreates(t, uow, bout.ID)
	ctx := context.Background()
	svc := NewPayoutService(uow)
	_, err := svc.EnterBoutResult(ctx, bout.ID, domain.WinnerA, uuid.New())
	require.NoError(t, err)

	for _, step := range []struct {
		kind        domain.EscrowKind
		fulfillment bool
	}{
		{domain.KindShowA, false},
		{domain.KindShowB, false},
		{domain.KindBonusA, true},
	} {
		escrow, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, step.kind)
		require.NoError(t, err)
		var fulfillment *string
		if step.fulfillment {
			fulfillment = escrow.EncryptedPreimageHex
		}
		_, _, err = svc.ConfirmPayout(ctx, bout.ID, step.kind,
			payoutConfirmationFor(escrow, confirm.ActionFinish, fulfillment, escrow.FinishAfterRipple+1))
		require.NoError(t, err)
	}

	storedBout, err := uow.Bouts().Get(ctx, bout.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BoutClosed, storedBout.Status)

	// Cancelling the loser bonus after closure fails on bout state; the
	// reclaim happens on-ledger, not through this API.
	bonusB, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, domain.KindBonusB)
	require.NoError(t, err)
	_, _, err = svc.ConfirmPayout(ctx, bout.ID, domain.KindBonusB,
		payoutConfirmationFor(bonusB, confirm.ActionCancel, nil, *bonusB.CancelAfterRipple+1))
	assert.ErrorIs(t, err, domain.ErrBoutNotInPayoutState)
}

func TestConfirmPayout_CancelBeforeWindowRejected(t *testing.T) {
	uow := newFakeUnitOfWork()
	bout := createDraftBout(t, uow)
	confirmAllCreates(t, uow, bout.ID)
	ctx := context.Background()
	svc := NewPayoutService(uow)
	_, err := svc.EnterBoutResult(ctx, bout.ID, domain.WinnerA, uuid.New())
	require.NoError(t, err)

	bonusB, err := uow.Escrows().GetByBoutKind(ctx, bout.ID, domain.KindBonusB)
	require.NoError(t, err)
	_, _, err = svc.ConfirmPayout(ctx, bout.ID, domain.KindBonusB,
		payoutConfirmationFor(bonusB, confirm.ActionCancel, nil, *bonusB.CancelAfterRipple-1))

	var failure *domain.ConfirmationFailedError
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, taxonomy.CodeInvalidConfirmation, failure.Code)
	assert.Contains(t, failure.Reason, "ledger_cancel_before_allowed")
}

func TestIdempotencyService_ReplayAndMismatch(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewIdempotencyService(uow)
	ctx := context.Background()

	payload := map[string]any{"escrow_kind": "show_a", "tx_hash": "ABCDEF01"}
	hash, err := HashRequestPayload(payload)
	require.NoError(t, err)

	scope := BuildConfirmScope("escrow_create_confirm", uuid.New())
	replay, err := svc.LoadReplay(ctx, scope, "key-1", hash)
	require.NoError(t, err)
	assert.Nil(t, replay)

	body := map[string]any{"escrow_status": "created", "bout_status": "draft"}
	require.NoError(t, svc.StoreResponse(ctx, scope, "key-1", hash, 200, body))

	replay, err = svc.LoadReplay(ctx, scope, "key-1", hash)
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 200, replay.StatusCode)
	assert.Equal(t, "created", replay.Body["escrow_status"])

	otherHash, err := HashRequestPayload(map[string]any{"escrow_kind": "show_b"})
	require.NoError(t, err)
	_, err = svc.LoadReplay(ctx, scope, "key-1", otherHash)
	assert.ErrorIs(t, err, domain.ErrIdempotencyKeyMismatch)
}

func TestIdempotencyService_FailureRepliesReplayed(t *testing.T) {
	uow := newFakeUnitOfWork()
	svc := NewIdempotencyService(uow)
	ctx := context.Background()

	payload := map[string]any{"escrow_kind": "show_a"}
	hash, err := HashRequestPayload(payload)
	require.NoError(t, err)
	scope := BuildConfirmScope("payout_confirm", uuid.New())

	require.NoError(t, svc.StoreResponse(ctx, scope, "key-9", hash, 422,
		map[string]any{"detail": "Ledger confirmation failed validation."}))

	replay, err := svc.LoadReplay(ctx, scope, "key-9", hash)
	require.NoError(t, err)
	require.NotNil(t, replay)
	assert.Equal(t, 422, replay.StatusCode)
}

func TestHashRequestPayload_OrderInsensitive(t *testing.T) {
	a, err := HashRequestPayload(map[string]any{"b": 2, "a": 1})
	require.NoError(t, err)
	b, err := HashRequestPayload(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
