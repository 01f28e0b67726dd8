package metadomain

import "strings"

type AdAccount struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// NumericID strips the act_ prefix Graph puts on ad account ids.
func (a AdAccount) NumericID() string {
	if a.AccountID != "" {
		return a.AccountID
	}
	return strings.TrimPrefix(a.ID, "act_")
}

type Me struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ActID returns the Graph node id of an ad account.
func ActID(accountID string) string {
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}
