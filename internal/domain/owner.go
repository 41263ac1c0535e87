package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnerKind distinguishes the two kinds of cart owner.
type OwnerKind int

const (
	OwnerNone OwnerKind = iota
	OwnerCustomer
	OwnerAnonymous
)

// Owner identifies whose cart is being used. Exactly one of CustomerID and
// Token is meaningful, depending on Kind.
type Owner struct {
	Kind       OwnerKind
	CustomerID uuid.UUID
	Token      string
}

func CustomerOwner(id uuid.UUID) Owner {
	return Owner{Kind: OwnerCustomer, CustomerID: id}
}

func AnonymousOwner(token string) Owner {
	return Owner{Kind: OwnerAnonymous, Token: token}
}

// IsZero reports whether no owner could be resolved.
func (o Owner) IsZero() bool {
	switch o.Kind {
	case OwnerCustomer:
		return o.CustomerID == uuid.Nil
	case OwnerAnonymous:
		return o.Token == ""
	default:
		return true
	}
}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerCustomer:
		return fmt.Sprintf("customer:%s", o.CustomerID)
	case OwnerAnonymous:
		return "anonymous"
	default:
		return "none"
	}
}
