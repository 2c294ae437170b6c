package domain

// Role classifies what kind of account a node represents
type Role string

const (
	RoleGeneral Role = "general"
	RoleStudent Role = "student"
	RoleCompany Role = "company"
)

// Valid reports whether the role is one of the closed set
func (r Role) Valid() bool {
	switch r {
	case RoleGeneral, RoleStudent, RoleCompany:
		return true
	}
	return false
}

// CanPostJobs reports whether this role may publish job listings
func (r Role) CanPostJobs() bool {
	return r == RoleCompany
}

// CanApplyToJobs reports whether this role may apply to job listings
func (r Role) CanApplyToJobs() bool {
	return r == RoleGeneral || r == RoleStudent
}

// Visibility controls who may view a node's profile details
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityFriends Visibility = "friends"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether the visibility is one of the closed set
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// AllowsViewer reports whether a viewer may see the profile. isSelf is the
// viewer looking at their own node; isFriend means an edge exists between
// viewer and owner.
func (v Visibility) AllowsViewer(isSelf, isFriend bool) bool {
	if isSelf {
		return true
	}
	switch v {
	case VisibilityPublic:
		return true
	case VisibilityFriends:
		return isFriend
	default:
		return false
	}
}

// GeoPoint is a resolved geographic coordinate for a node's address
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Node represents a person in the graph
type Node struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	Geo *GeoPoint `json:"geo,omitempty"`

	Role       Role       `json:"role,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`

	// Position is derived view state, not part of the durable graph
	Position Vec3 `json:"position"`
}

// NewNode creates a node with defaulted role and visibility
func NewNode(id, label string) *Node {
	return &Node{
		ID:         id,
		Label:      label,
		Role:       RoleGeneral,
		Visibility: VisibilityPublic,
	}
}

// NodeFields carries a partial profile update. Nil fields are left unchanged.
type NodeFields struct {
	Label   *string
	Phone   *string
	Address *string
	Geo     *GeoPoint
}

// Merge applies non-nil fields onto the node
func (n *Node) Merge(fields NodeFields) {
	if fields.Label != nil {
		n.Label = *fields.Label
	}
	if fields.Phone != nil {
		n.Phone = *fields.Phone
	}
	if fields.Address != nil {
		n.Address = *fields.Address
	}
	if fields.Geo != nil {
		geo := *fields.Geo
		n.Geo = &geo
	}
}
