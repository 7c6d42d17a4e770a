package models

type Cuisine string

const (
	CuisineItalian  Cuisine = "Italian"
	CuisineMexican  Cuisine = "Mexican"
	CuisineChinese  Cuisine = "Chinese"
	CuisineIndian   Cuisine = "Indian"
	CuisineAmerican Cuisine = "American"
	CuisineOther    Cuisine = "Other"
)

func (c Cuisine) Valid() bool {
	switch c {
	case CuisineItalian, CuisineMexican, CuisineChinese, CuisineIndian, CuisineAmerican, CuisineOther:
		return true
	}
	return false
}

// NotificationStatus is the review state of a seller application.
type NotificationStatus string

const (
	StatusPending  NotificationStatus = "pending"
	StatusApproved NotificationStatus = "approved"
	StatusRejected NotificationStatus = "rejected"
)

func (s NotificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type RequestType string

const (
	RequestCreate RequestType = "create"
	RequestUpdate RequestType = "update"
	RequestDelete RequestType = "delete"
)

func (r RequestType) Valid() bool {
	switch r {
	case RequestCreate, RequestUpdate, RequestDelete:
		return true
	}
	return false
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}
