package entities

import "time"

// EdgeStatus is the lifecycle state of a relationship edge.
type EdgeStatus string

const (
	EdgePending  EdgeStatus = "pending"
	EdgeAccepted EdgeStatus = "accepted"
	EdgeRejected EdgeStatus = "rejected"
)

// RelationshipEdge is a stored relationship between two people.
// TypeCode describes the object relative to the subject: the object is the
// subject's TypeCode.
type RelationshipEdge struct {
	ID        string     `json:"id"`
	SubjectID string     `json:"subject_id"`
	ObjectID  string     `json:"object_id"`
	TypeCode  string     `json:"type"`
	Status    EdgeStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Touches reports whether personID is one end of the edge.
func (e *RelationshipEdge) Touches(personID string) bool {
	return e != nil && (e.SubjectID == personID || e.ObjectID == personID)
}

// Other returns the end of the edge that is not personID.
func (e *RelationshipEdge) Other(personID string) string {
	if e.SubjectID == personID {
		return e.ObjectID
	}
	return e.SubjectID
}

// Neighbor is one accepted edge seen from a given person. TypeCode describes
// the neighbor relative to that person.
type Neighbor struct {
	NeighborID string `json:"neighbor_id"`
	TypeCode   string `json:"type"`
}

// OrientTo returns the edge as a Neighbor seen from personID, using the
// catalog to invert the code when personID is the object. The neighbor's
// gender picks the variant of the inverted code.
func (c *RelationCatalog) OrientTo(e RelationshipEdge, personID string, neighborGender Gender) (Neighbor, bool) {
	switch personID {
	case e.SubjectID:
		if !c.Has(e.TypeCode) {
			return Neighbor{}, false
		}
		return Neighbor{NeighborID: e.ObjectID, TypeCode: e.TypeCode}, true
	case e.ObjectID:
		inv, ok := c.Inverse(e.TypeCode, neighborGender)
		if !ok {
			return Neighbor{}, false
		}
		return Neighbor{NeighborID: e.SubjectID, TypeCode: inv}, true
	default:
		return Neighbor{}, false
	}
}
