package entity

import "fmt"

// Owner is the root every document hangs from: one identity inside one deployment.
type Owner struct {
	DeploymentID string `gorm:"type:varchar(64);not null;index:,composite:owner" json:"-"`
	UserID       string `gorm:"type:varchar(128);not null;index:,composite:owner" json:"-"`
}

// IsZero reports whether the owner has no identity yet.
func (o Owner) IsZero() bool {
	return o.DeploymentID == "" || o.UserID == ""
}

// ProfilesPath is the collection path of the owner's profiles.
func (o Owner) ProfilesPath() string {
	return fmt.Sprintf("/artifacts/%s/users/%s/profiles", o.DeploymentID, o.UserID)
}

// Scope narrows an owner to a single profile. Scoped records embed it, so the
// three columns are the relational form of the document path.
type Scope struct {
	DeploymentID string `gorm:"type:varchar(64);not null;index:,composite:scope" json:"-"`
	UserID       string `gorm:"type:varchar(128);not null;index:,composite:scope" json:"-"`
	ProfileID    string `gorm:"type:varchar(36);not null;index:,composite:scope" json:"profile_id"`
}

func (o Owner) Scope(profileID string) Scope {
	return Scope{DeploymentID: o.DeploymentID, UserID: o.UserID, ProfileID: profileID}
}

func (s Scope) Owner() Owner {
	return Owner{DeploymentID: s.DeploymentID, UserID: s.UserID}
}

func (s Scope) IsZero() bool {
	return s.Owner().IsZero() || s.ProfileID == ""
}

// ProfilePath is the document path of the scope's profile.
func (s Scope) ProfilePath() string {
	return s.Owner().ProfilesPath() + "/" + s.ProfileID
}

// CollectionPath is the path of one scoped collection, also used as its change-feed topic.
func (s Scope) CollectionPath(kind Kind) string {
	return s.ProfilePath() + "/" + kind.Collection()
}

// PrescriptionPath is the blob path of an uploaded prescription file.
func (s Scope) PrescriptionPath(fileName string) string {
	return s.ProfilePath() + "/prescriptions/" + fileName
}
