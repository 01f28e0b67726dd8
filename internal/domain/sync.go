package domain

// SyncResult is the outcome of syncing one connection.
type SyncResult struct {
	ConnectionID    string   `json:"connectionId"`
	Platform        Platform `json:"platform"`
	AccountID       string   `json:"accountId"`
	Success         bool     `json:"success"`
	CampaignsSynced int      `json:"campaignsSynced"`
	Attempts        int      `json:"attempts"`
	Error           string   `json:"error,omitempty"`
	Duration        int64    `json:"duration"`
}

// SyncStats aggregates one user's sync run. Durations are in milliseconds.
type SyncStats struct {
	UserID           string       `json:"userId"`
	TotalConnections int          `json:"totalConnections"`
	SuccessfulSyncs  int          `json:"successfulSyncs"`
	FailedSyncs      int          `json:"failedSyncs"`
	TotalCampaigns   int          `json:"totalCampaigns"`
	Duration         int64        `json:"duration"`
	Errors           []SyncResult `json:"errors"`
}

type UserSyncReport struct {
	UserID string     `json:"userId"`
	Stats  *SyncStats `json:"stats,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// CronSyncReport is the response of the all-users sync.
type CronSyncReport struct {
	Success          bool             `json:"success"`
	UsersProcessed   int              `json:"usersProcessed"`
	UsersFailed      int              `json:"usersFailed"`
	TotalConnections int              `json:"totalConnections"`
	SuccessfulSyncs  int              `json:"successfulSyncs"`
	FailedSyncs      int              `json:"failedSyncs"`
	TotalCampaigns   int              `json:"totalCampaigns"`
	Duration         int64            `json:"duration"`
	Results          []UserSyncReport `json:"results"`
}
