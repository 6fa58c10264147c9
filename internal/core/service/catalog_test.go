package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coursestore/storefront/internal/core/domain"
	"github.com/coursestore/storefront/internal/core/ports"
)

func TestCatalog_List(t *testing.T) {
	catalog := NewCatalog(newFakeAPI())
	ctx := context.Background()

	cases := []struct {
		name   string
		filter ports.CourseFilter
		want   []int64
	}{
		{"all levels", ports.CourseFilter{}, []int64{1, 2, 3}},
		{"explicit all", ports.CourseFilter{Level: "All"}, []int64{1, 2, 3}},
		{"level is case-insensitive", ports.CourseFilter{Level: "BEGINNER"}, []int64{1, 3}},
		{"limit", ports.CourseFilter{Limit: 2}, []int64{1, 2}},
		{"no match", ports.CourseFilter{Level: "expert"}, []int64{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses, err := catalog.List(ctx, tc.filter)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if len(courses) != len(tc.want) {
				t.Fatalf("expected %d courses, got %d", len(tc.want), len(courses))
			}
			for i, id := range tc.want {
				if courses[i].ID != id {
					t.Fatalf("position %d: expected course %d, got %d", i, id, courses[i].ID)
				}
			}
		})
	}
}

func TestCatalog_GetMissing(t *testing.T) {
	_, err := NewCatalog(newFakeAPI()).Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestOrders_List(t *testing.T) {
	fx := newFixture(t)
	orders := NewOrders(fx.api, fx.session)
	ctx := context.Background()

	if _, err := orders.List(ctx); !errors.Is(err, domain.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}

	fx.login(t)
	_ = fx.cart.AddItem(ctx, 2)
	if _, err := fx.checkout.Submit(ctx); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	list, err := orders.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 1 || list[0].Status != domain.OrderPending {
		t.Fatalf("unexpected orders: %+v", list)
	}
}
