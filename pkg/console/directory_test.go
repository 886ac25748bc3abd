package console

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/pkg/client"
)

func team(name, idea, impact string, status domain.TeamStatus, createdAt *time.Time) *domain.Team {
	return &domain.Team{
		ID:                name,
		TeamName:          name,
		IdeaDescription:   idea,
		ImpactDescription: impact,
		Status:            status,
		CreatedAt:         createdAt,
	}
}

func ts(offset int) *time.Time {
	t := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
	return &t
}

func sampleTeams() []*domain.Team {
	return []*domain.Team{
		team("alpha", "medical triage agent", "helps hospitals", domain.StatusPending, ts(0)),
		team("beta", "carbon tracker", "climate reporting", domain.StatusApproved, ts(2)),
		team("gamma", "fraud detector", "protects Payments", domain.StatusRejected, ts(1)),
		team("delta", "GRID balancer", "stabilizes power grids", domain.StatusPending, nil),
	}
}

func TestFilterTeams(t *testing.T) {
	teams := sampleTeams()

	t.Run("empty query and all statuses is identity", func(t *testing.T) {
		got := FilterTeams(teams, "", StatusAll)
		assert.ElementsMatch(t, teams, got)
	})

	t.Run("query matches any of the three fields", func(t *testing.T) {
		assert.Len(t, FilterTeams(teams, "alpha", StatusAll), 1)    // по имени
		assert.Len(t, FilterTeams(teams, "carbon", StatusAll), 1)   // по идее
		assert.Len(t, FilterTeams(teams, "payments", StatusAll), 1) // по impact, без учета регистра
	})

	t.Run("status filter is exact", func(t *testing.T) {
		got := FilterTeams(teams, "", StatusFilter(domain.StatusPending))
		assert.Len(t, got, 2)
	})

	t.Run("filters compose with AND", func(t *testing.T) {
		got := FilterTeams(teams, "grid", StatusFilter(domain.StatusPending))
		require.Len(t, got, 1)
		assert.Equal(t, "delta", got[0].TeamName)

		assert.Empty(t, FilterTeams(teams, "grid", StatusFilter(domain.StatusApproved)))
	})

	t.Run("no match yields empty, not error", func(t *testing.T) {
		assert.Empty(t, FilterTeams(teams, "no such team anywhere", StatusAll))
	})
}

func TestSortTeams(t *testing.T) {
	teams := sampleTeams()

	t.Run("newest first, missing timestamp sorts earliest", func(t *testing.T) {
		got := SortTeams(teams, SortNewest)
		names := []string{got[0].TeamName, got[1].TeamName, got[2].TeamName, got[3].TeamName}
		assert.Equal(t, []string{"beta", "gamma", "alpha", "delta"}, names)
	})

	t.Run("oldest is the reverse", func(t *testing.T) {
		got := SortTeams(teams, SortOldest)
		names := []string{got[0].TeamName, got[1].TeamName, got[2].TeamName, got[3].TeamName}
		assert.Equal(t, []string{"delta", "alpha", "gamma", "beta"}, names)
	})

	t.Run("idempotent", func(t *testing.T) {
		once := SortTeams(teams, SortNewest)
		twice := SortTeams(once, SortNewest)
		assert.Equal(t, once, twice)
	})

	t.Run("stable on equal timestamps", func(t *testing.T) {
		same := ts(5)
		ties := []*domain.Team{
			team("first", "i", "m", domain.StatusPending, same),
			team("second", "i", "m", domain.StatusPending, same),
			team("third", "i", "m", domain.StatusPending, same),
		}
		got := SortTeams(ties, SortNewest)
		assert.Equal(t, "first", got[0].TeamName)
		assert.Equal(t, "second", got[1].TeamName)
		assert.Equal(t, "third", got[2].TeamName)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		before := teams[0]
		SortTeams(teams, SortNewest)
		assert.Same(t, before, teams[0])
	})
}

func TestPaginateTeams(t *testing.T) {
	var teams []*domain.Team
	for i := 0; i < 10; i++ {
		teams = append(teams, team(string(rune('a'+i)), "idea", "impact", domain.StatusPending, ts(i)))
	}

	assert.Len(t, PaginateTeams(teams, 1, 9), 9)
	assert.Len(t, PaginateTeams(teams, 2, 9), 1)
	assert.Empty(t, PaginateTeams(teams, 3, 9))
}

// newDirectoryServer поднимает фейковый API, отдающий заданный список команд
func newDirectoryServer(t *testing.T, teams []*domain.Team) (*httptest.Server, *int) {
	t.Helper()
	listCalls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/v1/teams" {
			listCalls++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"teams":       teams,
				"total":       len(teams),
				"total_pages": 1,
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv, &listCalls
}

func newTestDirectory(t *testing.T, teams []*domain.Team) (*Directory, *int) {
	t.Helper()
	srv, listCalls := newDirectoryServer(t, teams)
	api := client.New(srv.URL, client.NewSession())
	return NewDirectory(api, slog.New(slog.DiscardHandler)), listCalls
}

func TestDirectory_LoadAndPaging(t *testing.T) {
	var teams []*domain.Team
	for i := 0; i < 10; i++ {
		teams = append(teams, team(string(rune('a'+i)), "idea", "impact", domain.StatusPending, ts(i)))
	}
	dir, _ := newTestDirectory(t, teams)

	dir.Load(context.Background())
	assert.Len(t, dir.Visible(), 9)
	assert.Equal(t, 2, dir.TotalPages())

	dir.SetPage(2)
	assert.Len(t, dir.Visible(), 1)

	// Номер страницы ограничивается доступным диапазоном
	dir.SetPage(99)
	assert.Equal(t, 2, dir.Page())

	// Смена запроса сбрасывает страницу
	dir.SetQuery("idea")
	assert.Equal(t, 1, dir.Page())

	dir.SetStatusFilter(StatusFilter(domain.StatusApproved))
	assert.Empty(t, dir.Visible())
}

func TestDirectory_LoadFailureKeepsCache(t *testing.T) {
	teams := sampleTeams()
	srv, _ := newDirectoryServer(t, teams)
	api := client.New(srv.URL, client.NewSession())
	dir := NewDirectory(api, slog.New(slog.DiscardHandler))

	dir.Load(context.Background())
	require.Len(t, dir.Visible(), 4)

	// Сервер умер — прежний список остается на месте
	srv.Close()
	dir.Load(context.Background())
	assert.Len(t, dir.Visible(), 4)
}

func TestDirectory_RemarksDraftLifecycle(t *testing.T) {
	teams := sampleTeams()
	dir, _ := newTestDirectory(t, teams)

	dir.Select(teams[0])
	dir.SetRemarksDraft("needs a clearer pitch")
	assert.Equal(t, "needs a clearer pitch", dir.RemarksDraft())

	// Выбор другой команды не наследует черновик замечаний
	dir.Select(teams[1])
	assert.Empty(t, dir.RemarksDraft())

	dir.SetRemarksDraft("x")
	dir.Deselect()
	assert.Empty(t, dir.RemarksDraft())
	assert.Nil(t, dir.Selected())
}

func TestDirectory_ClosedDiscardsLateLoad(t *testing.T) {
	dir, _ := newTestDirectory(t, sampleTeams())

	dir.Close()
	dir.Load(context.Background())
	assert.Empty(t, dir.Visible())
}
