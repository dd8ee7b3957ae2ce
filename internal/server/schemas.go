package server

import "time"

// Request and response bodies. Field names mirror the wire contract; confirm
// responses are also the shape persisted for idempotent replay.

type registerRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=128"`
	Role        string  `json:"role"`
	DisplayName *string `json:"display_name,omitempty"`
	XRPLAddress *string `json:"xrpl_address,omitempty"`
}

type registerResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type createBoutRequest struct {
	FighterAUserID       string    `json:"fighter_a_user_id" binding:"required,uuid"`
	FighterBUserID       string    `json:"fighter_b_user_id" binding:"required,uuid"`
	EventDatetimeUTC     time.Time `json:"event_datetime_utc" binding:"required"`
	PromoterOwnerAddress string    `json:"promoter_owner_address" binding:"required,min=3,max=64"`
	FighterADestination  string    `json:"fighter_a_destination" binding:"required,min=3,max=64"`
	FighterBDestination  string    `json:"fighter_b_destination" binding:"required,min=3,max=64"`
	ShowADrops           int64     `json:"show_a_drops" binding:"min=0"`
	ShowBDrops           int64     `json:"show_b_drops" binding:"min=0"`
	BonusADrops          int64     `json:"bonus_a_drops" binding:"min=0"`
	BonusBDrops          int64     `json:"bonus_b_drops" binding:"min=0"`
}

type boutEscrowView struct {
	EscrowID     string  `json:"escrow_id"`
	EscrowKind   string  `json:"escrow_kind"`
	EscrowStatus string  `json:"escrow_status"`
	AmountDrops  int64   `json:"amount_drops"`
	ConditionHex *string `json:"condition_hex,omitempty"`
}

type createBoutResponse struct {
	BoutID         string           `json:"bout_id"`
	BoutStatus     string           `json:"bout_status"`
	FinishAfterUTC time.Time        `json:"finish_after_utc"`
	CancelAfterUTC time.Time        `json:"cancel_after_utc"`
	Escrows        []boutEscrowView `json:"escrows"`
}

type xamanSignRequestView struct {
	PayloadID          string  `json:"payload_id"`
	DeepLinkURL        string  `json:"deep_link_url"`
	QRPNGURL           string  `json:"qr_png_url"`
	WebsocketStatusURL *string `json:"websocket_status_url,omitempty"`
	Mode               string  `json:"mode"`
}

type escrowPrepareItem struct {
	EscrowID         string                `json:"escrow_id"`
	EscrowKind       string                `json:"escrow_kind"`
	UnsignedTx       map[string]any        `json:"unsigned_tx"`
	XamanSignRequest *xamanSignRequestView `json:"xaman_sign_request"`
}

type escrowPrepareResponse struct {
	BoutID  string              `json:"bout_id"`
	Escrows []escrowPrepareItem `json:"escrows"`
}

type escrowConfirmRequest struct {
	EscrowKind         string  `json:"escrow_kind" binding:"required"`
	TxHash             string  `json:"tx_hash" binding:"required,min=8,max=128"`
	OfferSequence      int64   `json:"offer_sequence" binding:"required,min=1"`
	Validated          bool    `json:"validated"`
	EngineResult       string  `json:"engine_result" binding:"required,min=3,max=32"`
	OwnerAddress       string  `json:"owner_address" binding:"required,min=3,max=64"`
	DestinationAddress string  `json:"destination_address" binding:"required,min=3,max=64"`
	AmountDrops        int64   `json:"amount_drops" binding:"min=0"`
	FinishAfterRipple  int64   `json:"finish_after_ripple" binding:"min=0"`
	CancelAfterRipple  *int64  `json:"cancel_after_ripple,omitempty"`
	ConditionHex       *string `json:"condition_hex,omitempty"`
}

type escrowConfirmResponse struct {
	BoutID        string `json:"bout_id"`
	EscrowID      string `json:"escrow_id"`
	EscrowKind    string `json:"escrow_kind"`
	EscrowStatus  string `json:"escrow_status"`
	BoutStatus    string `json:"bout_status"`
	TxHash        string `json:"tx_hash"`
	OfferSequence int64  `json:"offer_sequence"`
}

type boutResultRequest struct {
	Winner string `json:"winner" binding:"required"`
}

type boutResultResponse struct {
	BoutID     string `json:"bout_id"`
	BoutStatus string `json:"bout_status"`
	Winner     string `json:"winner"`
}

type payoutPrepareItem struct {
	EscrowID         string                `json:"escrow_id"`
	EscrowKind       string                `json:"escrow_kind"`
	Action           string                `json:"action"`
	UnsignedTx       map[string]any        `json:"unsigned_tx"`
	XamanSignRequest *xamanSignRequestView `json:"xaman_sign_request"`
}

type payoutPrepareResponse struct {
	BoutID     string              `json:"bout_id"`
	BoutStatus string              `json:"bout_status"`
	Escrows    []payoutPrepareItem `json:"escrows"`
}

type payoutConfirmRequest struct {
	EscrowKind      string  `json:"escrow_kind" binding:"required"`
	TxHash          string  `json:"tx_hash" binding:"required,min=8,max=128"`
	Validated       bool    `json:"validated"`
	EngineResult    string  `json:"engine_result" binding:"required,min=3,max=32"`
	TransactionType string  `json:"transaction_type" binding:"required,min=10,max=32"`
	OwnerAddress    string  `json:"owner_address" binding:"required,min=3,max=64"`
	OfferSequence   int64   `json:"offer_sequence" binding:"required,min=1"`
	CloseTimeRipple int64   `json:"close_time_ripple" binding:"min=0"`
	FulfillmentHex  *string `json:"fulfillment_hex,omitempty"`
}

type payoutConfirmResponse struct {
	BoutID       string `json:"bout_id"`
	EscrowID     string `json:"escrow_id"`
	EscrowKind   string `json:"escrow_kind"`
	EscrowStatus string `json:"escrow_status"`
	BoutStatus   string `json:"bout_status"`
	TxHash       string `json:"tx_hash"`
}

type signingReconcileRequest struct {
	EscrowKind     string  `json:"escrow_kind" binding:"required"`
	PayloadID      string  `json:"payload_id" binding:"required,min=8,max=128"`
	ObservedStatus *string `json:"observed_status,omitempty"`
	ObservedTxHash *string `json:"observed_tx_hash,omitempty"`
}

type signingReconcileResponse struct {
	BoutID        string  `json:"bout_id"`
	EscrowID      string  `json:"escrow_id"`
	EscrowKind    string  `json:"escrow_kind"`
	EscrowStatus  string  `json:"escrow_status"`
	PayloadID     string  `json:"payload_id"`
	SigningStatus string  `json:"signing_status"`
	TxHash        *string `json:"tx_hash"`
	FailureCode   *string `json:"failure_code"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}
