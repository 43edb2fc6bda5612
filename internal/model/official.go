package model

// Official is a pre-approved government user allowed to view analytics
type Official struct {
	Email        string
	GovID        string
	PasswordHash string
	Name         string
}
