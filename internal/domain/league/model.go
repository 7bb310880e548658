package league

import "fmt"

// League is a football competition whose matches the platform settles.
// FeedRefID is the external results-feed identifier; zero means the
// league has no feed mapping and is excluded from auto-settlement.
type League struct {
	ID        string
	Name      string
	Code      string
	FeedRefID int64
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Code == "" {
		return fmt.Errorf("league code is required")
	}

	return nil
}
