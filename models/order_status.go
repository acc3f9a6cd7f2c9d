package models

type OrderStatus string

// Status order stokis (PO ke pusat).
const (
	StatusPendingPusat   OrderStatus = "PENDING_PUSAT"
	StatusPendingFinance OrderStatus = "PENDING_FINANCE"
	StatusPOIssued       OrderStatus = "PO_ISSUED"
	StatusProcessing     OrderStatus = "PROCESSING"
	StatusShipped        OrderStatus = "SHIPPED"
	StatusReceived       OrderStatus = "RECEIVED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// Status order mitra (order ke stokis induk).
const (
	StatusPendingStokis OrderStatus = "PENDING_STOKIS"
)

// StatusRule: siapa boleh memindahkan order ke status target, dan dari status mana saja.
type StatusRule struct {
	Roles []string
	From  []OrderStatus
}

var stokisOrderRules = map[OrderStatus]StatusRule{
	StatusPendingFinance: {
		Roles: []string{RolePusat},
		From:  []OrderStatus{StatusPendingPusat},
	},
	StatusPOIssued: {
		Roles: []string{RoleFinance, RolePusat},
		From:  []OrderStatus{StatusPendingPusat, StatusPendingFinance},
	},
	StatusProcessing: {
		Roles: []string{RoleGudang},
		From:  []OrderStatus{StatusPOIssued},
	},
	StatusShipped: {
		Roles: []string{RoleGudang},
		From:  []OrderStatus{StatusProcessing},
	},
	StatusReceived: {
		Roles: []string{RoleStokis},
		From:  []OrderStatus{StatusShipped},
	},
	StatusCancelled: {
		Roles: []string{RolePusat, RoleFinance, RoleStokis},
		From:  []OrderStatus{StatusPendingPusat, StatusPendingFinance},
	},
}

var mitraOrderRules = map[OrderStatus]StatusRule{
	StatusProcessing: {
		Roles: []string{RoleStokis},
		From:  []OrderStatus{StatusPendingStokis},
	},
	StatusShipped: {
		Roles: []string{RoleStokis},
		From:  []OrderStatus{StatusProcessing},
	},
	StatusReceived: {
		Roles: []string{RoleMitra},
		From:  []OrderStatus{StatusShipped},
	},
	StatusCancelled: {
		Roles: []string{RoleStokis, RoleMitra},
		From:  []OrderStatus{StatusPendingStokis},
	},
}

func StokisOrderRule(target OrderStatus) (StatusRule, bool) {
	r, ok := stokisOrderRules[target]
	return r, ok
}

func MitraOrderRule(target OrderStatus) (StatusRule, bool) {
	r, ok := mitraOrderRules[target]
	return r, ok
}

func (r StatusRule) RoleAllowed(role string) bool {
	for _, v := range r.Roles {
		if v == role {
			return true
		}
	}
	return false
}

func (r StatusRule) FromAllowed(cur OrderStatus) bool {
	for _, v := range r.From {
		if v == cur {
			return true
		}
	}
	return false
}

// Order final tidak bisa diubah lagi.
func IsFinalStatus(s OrderStatus) bool {
	return s == StatusReceived || s == StatusCancelled
}

// Status yang masih boleh di-adjust item-nya.
func AdjustableStokis(s OrderStatus) bool {
	return s == StatusPendingPusat || s == StatusPendingFinance
}

func AdjustableMitra(s OrderStatus) bool {
	return s == StatusPendingStokis
}
