package screens

import (
	"testing"

	"locserver/models"
)

func TestDecorateResults(t *testing.T) {
	views := []resultView{
		{PlayerName: "Minh", PrizeName: "Lì xì 50K", PrizeType: models.PrizeCash, PrizeValue: 50000, Phone: "0901234567"},
		{PlayerName: "Trang", PrizeName: "Gấu bông", PrizeType: models.PrizeItem, Phone: "0901234567"},
		{PlayerName: "Khách", PrizeName: "Lì xì lớn", PrizeType: models.PrizeCash, PrizeValue: 1500000},
	}
	decorateResults(views)

	if views[0].ValueDisplay != "50K" {
		t.Errorf("ValueDisplay = %q, want 50K", views[0].ValueDisplay)
	}
	if views[0].PlayerPhone != "090 123 4567" {
		t.Errorf("PlayerPhone = %q", views[0].PlayerPhone)
	}
	if views[0].MoMoLink != "https://nhantien.momo.vn/0901234567/50000" {
		t.Errorf("MoMoLink = %q", views[0].MoMoLink)
	}

	if views[1].ValueDisplay != "" || views[1].MoMoLink != "" {
		t.Errorf("Item prize must not carry cash display fields: %+v", views[1])
	}
	if views[1].PlayerPhone != "090 123 4567" {
		t.Errorf("PlayerPhone = %q", views[1].PlayerPhone)
	}

	if views[2].ValueDisplay != "1.5M" {
		t.Errorf("ValueDisplay = %q, want 1.5M", views[2].ValueDisplay)
	}
	if views[2].MoMoLink != "" {
		t.Error("Winner without a phone must not get a MoMo link")
	}
}

func TestPrizeViews(t *testing.T) {
	prizes := []models.Prize{
		{Type: models.PrizeCash, Name: "Lì xì", Value: 20000, Quantity: 3, Remaining: 2},
		{Type: models.PrizeItem, Name: "Gấu bông", Quantity: 1, Remaining: 1},
	}
	views := prizeViews(prizes)
	if len(views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(views))
	}
	if views[0].ValueDisplay != "20K" {
		t.Errorf("ValueDisplay = %q, want 20K", views[0].ValueDisplay)
	}
	if views[1].ValueDisplay != "" {
		t.Errorf("Item prize ValueDisplay = %q, want empty", views[1].ValueDisplay)
	}
}

func TestJoinBase(t *testing.T) {
	t.Setenv("CLIENT_BASE_URL", "https://locxuan.example")
	if got := joinBase(); got != "https://locxuan.example" {
		t.Errorf("joinBase = %q", got)
	}
	t.Setenv("CLIENT_BASE_URL", "")
	if got := joinBase(); got != "http://localhost:3000" {
		t.Errorf("joinBase default = %q", got)
	}
}
