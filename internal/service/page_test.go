package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
)

func TestPageService_ListSections(t *testing.T) {
	ctx := context.Background()

	store := newFakeStore()
	for _, p := range []repository.CreateInfoSectionParams{
		{Page: domain.PageHowToPay, Title: "Cash", Body: "Pay at pickup.", Position: 2},
		{Page: domain.PageHowToPay, Title: "Card", Body: "Terminals in every shop.", Position: 1},
		{Page: domain.PageHowToOrder, Title: "Online", Body: "Fill your cart.", Position: 1},
	} {
		_, err := store.CreateInfoSection(ctx, p)
		require.NoError(t, err)
	}
	svc := NewPageService(store)

	t.Run("ordered by position", func(t *testing.T) {
		sections, err := svc.ListSections(ctx, domain.PageHowToPay)
		require.NoError(t, err)
		require.Len(t, sections, 2)
		assert.Equal(t, "Card", sections[0].Title)
		assert.Equal(t, "Cash", sections[1].Title)
	})

	t.Run("unknown page", func(t *testing.T) {
		_, err := svc.ListSections(ctx, "about-us")
		assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
	})

	t.Run("database failure is internal", func(t *testing.T) {
		store.failOn = map[string]error{"ListInfoSections": errors.New("connection reset")}
		defer func() { store.failOn = nil }()

		_, err := svc.ListSections(ctx, domain.PageHowToOrder)
		assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	})
}
