package models

import "testing"

func TestStokisOrderRuleTable(t *testing.T) {
	cases := []struct {
		target OrderStatus
		role   string
		from   OrderStatus
		ok     bool
	}{
		{StatusPendingFinance, RolePusat, StatusPendingPusat, true},
		{StatusPendingFinance, RoleFinance, StatusPendingPusat, false},
		{StatusPOIssued, RoleFinance, StatusPendingFinance, true},
		{StatusPOIssued, RolePusat, StatusPendingPusat, true},
		{StatusPOIssued, RoleGudang, StatusPendingFinance, false},
		{StatusPOIssued, RoleFinance, StatusProcessing, false},
		{StatusProcessing, RoleGudang, StatusPOIssued, true},
		{StatusProcessing, RoleGudang, StatusPendingPusat, false},
		{StatusShipped, RoleGudang, StatusProcessing, true},
		{StatusShipped, RoleStokis, StatusProcessing, false},
		{StatusReceived, RoleStokis, StatusShipped, true},
		{StatusReceived, RoleStokis, StatusPOIssued, false},
		{StatusCancelled, RoleStokis, StatusPendingPusat, true},
		{StatusCancelled, RoleFinance, StatusPendingFinance, true},
		{StatusCancelled, RolePusat, StatusPOIssued, false},
		{StatusCancelled, RoleGudang, StatusPendingPusat, false},
	}

	for _, tc := range cases {
		rule, ok := StokisOrderRule(tc.target)
		if !ok {
			t.Fatalf("target %s tidak ada di tabel", tc.target)
		}
		got := rule.RoleAllowed(tc.role) && rule.FromAllowed(tc.from)
		if got != tc.ok {
			t.Errorf("(%s, %s, %s): got %v, want %v", tc.target, tc.role, tc.from, got, tc.ok)
		}
	}
}

func TestUnknownTargetStatus(t *testing.T) {
	if _, ok := StokisOrderRule(StatusPendingPusat); ok {
		t.Error("PENDING_PUSAT bukan target transisi yang sah")
	}
	if _, ok := StokisOrderRule(OrderStatus("DELIVERED")); ok {
		t.Error("status asing tidak boleh ada di tabel")
	}
	if _, ok := MitraOrderRule(StatusPOIssued); ok {
		t.Error("PO_ISSUED bukan bagian lifecycle order mitra")
	}
}

func TestMitraOrderRuleTable(t *testing.T) {
	cases := []struct {
		target OrderStatus
		role   string
		from   OrderStatus
		ok     bool
	}{
		{StatusProcessing, RoleStokis, StatusPendingStokis, true},
		{StatusProcessing, RoleMitra, StatusPendingStokis, false},
		{StatusShipped, RoleStokis, StatusProcessing, true},
		{StatusReceived, RoleMitra, StatusShipped, true},
		{StatusReceived, RoleMitra, StatusProcessing, false},
		{StatusCancelled, RoleMitra, StatusPendingStokis, true},
		{StatusCancelled, RoleStokis, StatusShipped, false},
	}

	for _, tc := range cases {
		rule, ok := MitraOrderRule(tc.target)
		if !ok {
			t.Fatalf("target %s tidak ada di tabel", tc.target)
		}
		got := rule.RoleAllowed(tc.role) && rule.FromAllowed(tc.from)
		if got != tc.ok {
			t.Errorf("(%s, %s, %s): got %v, want %v", tc.target, tc.role, tc.from, got, tc.ok)
		}
	}
}

func TestFinalAndAdjustable(t *testing.T) {
	if !IsFinalStatus(StatusReceived) || !IsFinalStatus(StatusCancelled) {
		t.Error("RECEIVED dan CANCELLED harus final")
	}
	if IsFinalStatus(StatusShipped) {
		t.Error("SHIPPED bukan status final")
	}
	if !AdjustableStokis(StatusPendingPusat) || !AdjustableStokis(StatusPendingFinance) {
		t.Error("order pending harus bisa di-adjust")
	}
	if AdjustableStokis(StatusPOIssued) {
		t.Error("order dengan PO terbit tidak boleh di-adjust")
	}
	if !AdjustableMitra(StatusPendingStokis) || AdjustableMitra(StatusProcessing) {
		t.Error("adjust mitra hanya saat PENDING_STOKIS")
	}
}
