package entities

// RelationshipAccepted is raised when a relationship request between two
// existing members is accepted.
type RelationshipAccepted struct {
	RequesterID      string `json:"requester_id"`
	TargetID         string `json:"target_id"`
	RelationTypeCode string `json:"relation_type_code"`
}

// MemberAdded is raised when a member adds a new person to the network with
// a stated relationship.
type MemberAdded struct {
	NewMemberID      string `json:"new_member_id"`
	AddedByID        string `json:"added_by_id"`
	RelationTypeCode string `json:"relation_type_code"`
}

// SeedEdge returns the edge the event states: the new member is the adder's
// RelationTypeCode.
func (e MemberAdded) SeedEdge() RelationshipEdge {
	return RelationshipEdge{
		SubjectID: e.AddedByID,
		ObjectID:  e.NewMemberID,
		TypeCode:  e.RelationTypeCode,
		Status:    EdgeAccepted,
	}
}
