// Package referral reads per-user referral debt figures from PostgreSQL.
package referral

// Balance is one user's referral debt figures as served by the API.
//
// Username is nil when the user has no row in the client table.
type Balance struct {
	UserID               int64   `json:"user_id"`
	Username             *string `json:"username"`
	Debt                 float64 `json:"debt"`
	TotalReferralBalance float64 `json:"total_referral_balance"`
}
