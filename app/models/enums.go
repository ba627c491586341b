package models

// Role names recognised across the system. Role claims from the identity
// layer are trusted verbatim.
const (
	RoleAdmin    = "admin"
	RoleICT      = "ict"
	RoleAccounts = "accounts"
	RoleTeacher  = "teacher"
	RoleStudent  = "student"
	RoleParent   = "parent"
)

// Gender defines the possible gender values for a student.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// SponsorshipType defines who covers a student's fees.
type SponsorshipType string

const (
	SponsorSelf       SponsorshipType = "Self"
	SponsorGovernment SponsorshipType = "Government"
	SponsorCorporate  SponsorshipType = "Corporate"
	SponsorOther      SponsorshipType = "Other"
)
