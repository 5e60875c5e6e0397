package models

type User struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	PasswordHash string  `json:"-"`                        // don’t expose hash
	APIRateLimit *string `json:"api_rate_limit,omitempty"` // nil means the default rule
	Limits       Limits  `json:"limits"`
}

// Limits caps how many objects of each kind a user may own.
type Limits struct {
	AccessID        int `json:"limit_aid"`
	ChannelGroup    int `json:"limit_channel_group"`
	ChannelPerGroup int `json:"limit_channel_per_group"`
	DirectLink      int `json:"limit_direct_link"`
	Location        int `json:"limit_loc"`
	OAuthClient     int `json:"limit_oauth_client"`
	Schedule        int `json:"limit_schedule"`
}
