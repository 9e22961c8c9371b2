package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/services"
)

func TestCatalogService_ResolveMunicipality(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	svc := services.NewCatalogService(repo)

	first, err := svc.ResolveMunicipality(ctx, "Neiva")
	require.NoError(t, err)

	second, err := svc.ResolveMunicipality(ctx, "Neiva")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, repo.municipalities, 1)
}

func TestCatalogService_ResolveMunicipality_normalizesVariants(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	svc := services.NewCatalogService(repo)

	first, err := svc.ResolveMunicipality(ctx, "BOGOTÁ")
	require.NoError(t, err)

	for _, variant := range []string{"bogotá", "  Bogota  ", "BOGOTA"} {
		id, err := svc.ResolveMunicipality(ctx, variant)
		require.NoError(t, err)
		assert.Equal(t, first, id, "variant %q must resolve to the same row", variant)
	}
	assert.Len(t, repo.municipalities, 1)
	assert.Equal(t, "BOGOTA", repo.municipalities[0].Name())
}

func TestCatalogService_ResolveMunicipality_emptyName(t *testing.T) {
	svc := services.NewCatalogService(&fakeCatalogRepo{})

	_, err := svc.ResolveMunicipality(context.Background(), "   ")
	require.ErrorIs(t, err, catalog.ErrMissingLocationLevel)
}

func TestCatalogService_ResolveInstitution_scopedUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	svc := services.NewCatalogService(repo)

	neiva, err := svc.ResolveMunicipality(ctx, "Neiva")
	require.NoError(t, err)
	pitalito, err := svc.ResolveMunicipality(ctx, "Pitalito")
	require.NoError(t, err)

	inNeiva, err := svc.ResolveInstitution(ctx, "IE Central", neiva)
	require.NoError(t, err)
	inPitalito, err := svc.ResolveInstitution(ctx, "IE Central", pitalito)
	require.NoError(t, err)

	assert.NotEqual(t, inNeiva, inPitalito)
	assert.Len(t, repo.institutions, 2)

	again, err := svc.ResolveInstitution(ctx, "ie central", neiva)
	require.NoError(t, err)
	assert.Equal(t, inNeiva, again)
}

func TestCatalogService_ResolveSite_scopedToInstitution(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	svc := services.NewCatalogService(repo)

	neiva, err := svc.ResolveMunicipality(ctx, "Neiva")
	require.NoError(t, err)
	central, err := svc.ResolveInstitution(ctx, "IE Central", neiva)
	require.NoError(t, err)
	oriente, err := svc.ResolveInstitution(ctx, "IE Oriente", neiva)
	require.NoError(t, err)

	a, err := svc.ResolveSite(ctx, "Sede Principal", central)
	require.NoError(t, err)
	b, err := svc.ResolveSite(ctx, "Sede Principal", oriente)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCatalogService_ResolveMunicipality_recoversFromLostRace(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	svc := services.NewCatalogService(repo)

	// The row exists, but the resolver's first lookup misses it as if a
	// concurrent insert landed between lookup and create. The create then
	// hits the unique violation and the resolver re-queries.
	existing, err := repo.CreateMunicipality(ctx, catalog.NewMunicipality("Garzón"))
	require.NoError(t, err)
	repo.missFirstMunicipalityGet = true

	id, err := svc.ResolveMunicipality(ctx, "garzon")
	require.NoError(t, err)
	assert.Equal(t, existing.ID(), id)
}

func TestCatalogService_IndicatorIndex(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{}
	_, err := repo.CreateIndicator(ctx, catalog.NewIndicator("Aulas Construidas"))
	require.NoError(t, err)
	_, err = repo.CreateIndicator(ctx, catalog.NewIndicator("Baterías Sanitarias"))
	require.NoError(t, err)

	index, err := services.NewCatalogService(repo).IndicatorIndex(ctx)
	require.NoError(t, err)
	assert.Len(t, index, 2)
	assert.Contains(t, index, "AULAS CONSTRUIDAS")
	assert.Contains(t, index, "BATERIAS SANITARIAS")
}
