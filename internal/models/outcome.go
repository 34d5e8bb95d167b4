package models

// Outcome is a closed enumeration of user-visible results of mutating
// operations. The presentation layer maps each variant to display text;
// nothing in the service layer deals in message strings.
type Outcome string

const (
	OutcomeRegistered     Outcome = "registered"
	OutcomeLoggedIn       Outcome = "logged_in"
	OutcomeLoggedOut      Outcome = "logged_out"
	OutcomeProfileUpdated Outcome = "profile_updated"
	OutcomeAvatarUpdated  Outcome = "avatar_updated"
	OutcomeUserDeleted    Outcome = "user_deleted"
	OutcomePostCreated    Outcome = "post_created"
	OutcomePostUpdated    Outcome = "post_updated"
	OutcomePostDeleted    Outcome = "post_deleted"
)
