package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/lucasmateusli/equiptrack/pkg/models"
)

func TestFilterEquipment(t *testing.T) {
	techA := uuid.New()
	techB := uuid.New()

	items := []models.Equipment{
		{IMEI: "356938035643809", ICCID: "8955000000000000001", Empresa: models.EmpresaLock, Status: models.StatusAvailable},
		{IMEI: "356938035643810", ICCID: "8955000000000000002", Empresa: models.EmpresaAlo, Status: models.StatusReserved, TechnicianID: &techA},
		{IMEI: "490154203237518", ICCID: "8955000000000000003", Empresa: models.EmpresaLock, Status: models.StatusUsed, TechnicianID: &techB},
	}

	t.Run("no filter returns everything in order", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{})
		if len(got) != len(items) {
			t.Fatalf("got %d items, want %d", len(got), len(items))
		}
		for i := range got {
			if got[i].IMEI != items[i].IMEI {
				t.Errorf("item %d = %s, want %s", i, got[i].IMEI, items[i].IMEI)
			}
		}
	})

	t.Run("all sentinel behaves like no filter", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{Status: "all", Empresa: "all", TechnicianID: "all"})
		if len(got) != len(items) {
			t.Fatalf("got %d items, want %d", len(got), len(items))
		}
	})

	t.Run("search matches imei substring", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{Search: "3569380"})
		if len(got) != 2 {
			t.Fatalf("got %d items, want 2", len(got))
		}
	})

	t.Run("search matches iccid substring", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{Search: "0000003"})
		if len(got) != 1 || got[0].IMEI != "490154203237518" {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("criteria combine with AND", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{Search: "356938", Empresa: models.EmpresaAlo})
		if len(got) != 1 || got[0].IMEI != "356938035643810" {
			t.Fatalf("got %v", got)
		}

		got = FilterEquipment(items, EquipmentFilter{Search: "356938", Empresa: models.EmpresaAlo, Status: models.StatusAvailable})
		if len(got) != 0 {
			t.Fatalf("got %v, want empty", got)
		}
	})

	t.Run("technician filter matches by id", func(t *testing.T) {
		got := FilterEquipment(items, EquipmentFilter{TechnicianID: techB.String()})
		if len(got) != 1 || got[0].IMEI != "490154203237518" {
			t.Fatalf("got %v", got)
		}
	})
}
