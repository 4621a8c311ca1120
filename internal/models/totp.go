package models

type DecryptSeedRequest struct {
	EncryptedSeed string `json:"encrypted_seed"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// TOTPCode: текущий код и сколько секунд он ещё действителен (1..30).
type TOTPCode struct {
	Code     string `json:"code"`
	ValidFor int    `json:"valid_for"`
}

type CodeVerification struct {
	Valid bool `json:"valid"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse: единственная форма ошибки, которую видит клиент.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	SeedReady bool   `json:"seed_ready"`
}
