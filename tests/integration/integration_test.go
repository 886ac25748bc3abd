package integration

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/pkg/client"
	"github.com/thoughtminds/mindmesh/pkg/console"
)

// TestE2E_CompleteWorkflow прогоняет полный сценарий платформы:
// регистрация через мастер, публичный каталог, логин администратора,
// модерация, удаление. Весь трафик идет через pkg/client и pkg/console.
func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Настраиваем тестовое окружение
	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	// Ждем пока приложение будет готово
	env.WaitForHealthCheck(t)

	ctx := context.Background()
	session := client.NewSession()
	api := client.New(env.BaseURL, session)

	var firstTeamID string
	t.Run("Register Team through Wizard", func(t *testing.T) {
		wizard := console.NewWizard(api)

		draft := wizard.Draft()
		draft.TeamName = "mesh-minds"
		draft.LeaderName = "Alice"
		draft.LeaderEmail = "alice@example.com"
		draft.LeaderID = "TM-1001"
		require.True(t, wizard.Advance())

		require.NoError(t, wizard.AddMember())
		entry := &wizard.Draft().Members[0]
		entry.Name = "Bob"
		entry.Email = "bob@example.com"
		entry.TMSID = "TM-1002"
		require.True(t, wizard.Advance())

		wizard.Draft().ProjectIdea = "An agent that triages incoming support tickets"
		wizard.Draft().ImpactStatement = "Cuts hospital response time in half"
		wizard.Draft().AgreedToRules = true

		team, err := wizard.Submit(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, team.ID)
		firstTeamID = team.ID

		assert.Equal(t, domain.StatusPending, team.Status)
		require.Len(t, team.Members, 2)
		assert.True(t, team.Members[0].IsTeamLead)
		assert.Equal(t, "Alice", team.Members[0].Name)
		assert.False(t, team.Members[1].IsTeamLead)
	})

	var secondTeamID string
	t.Run("Register Second Team via Client", func(t *testing.T) {
		team, err := api.CreateTeam(ctx, &client.CreateTeamRequest{
			TeamName:          "carbon-zero",
			IdeaDescription:   "Realtime carbon accounting for factories",
			ImpactDescription: "Makes emission reporting continuous",
			Members: []domain.TeamMember{
				{Name: "Carol", TMSID: "TM-2001", Email: "carol@example.com", IsTeamLead: true},
			},
		})
		require.NoError(t, err)
		secondTeamID = team.ID
	})

	t.Run("Duplicate Team Name Conflicts", func(t *testing.T) {
		_, err := api.CreateTeam(ctx, &client.CreateTeamRequest{
			TeamName:          "mesh-minds",
			IdeaDescription:   "Completely different idea text here",
			ImpactDescription: "Completely different impact text",
			Members: []domain.TeamMember{
				{Name: "Dave", TMSID: "TM-3001", Email: "dave@example.com", IsTeamLead: true},
			},
		})
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
		assert.Equal(t, "TEAM_EXISTS", apiErr.Code)
	})

	t.Run("Invalid Registration Is Rejected", func(t *testing.T) {
		_, err := api.CreateTeam(ctx, &client.CreateTeamRequest{
			TeamName:          "short-pitch",
			IdeaDescription:   "too short",
			ImpactDescription: "also way too short",
			Members: []domain.TeamMember{
				{Name: "Eve", TMSID: "TM-4001", Email: "eve@example.com", IsTeamLead: true},
			},
		})
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	})

	t.Run("Public Directory Lists Teams", func(t *testing.T) {
		list, err := api.ListTeams(ctx, 1, 9, "")
		require.NoError(t, err)
		assert.Equal(t, 2, list.Total)
		assert.Equal(t, 1, list.TotalPages)
		assert.Len(t, list.Teams, 2)

		// Серверный поиск по подстроке
		list, err = api.ListTeams(ctx, 1, 9, "carbon")
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)
		assert.Equal(t, "carbon-zero", list.Teams[0].TeamName)
	})

	t.Run("Moderation Requires Authentication", func(t *testing.T) {
		stale := client.NewSession()
		stale.SetToken("not-a-real-token")
		staleAPI := client.New(env.BaseURL, stale)

		_, err := staleAPI.UpdateStatus(ctx, firstTeamID, domain.StatusApproved, "")
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

		// 401 сбросил сессию: UI вернется к публичному каталогу
		assert.False(t, stale.IsAdmin())
	})

	t.Run("Admin Login", func(t *testing.T) {
		err := api.Login(ctx, TestAdminUsername, "wrong-password")
		require.Error(t, err)
		assert.False(t, session.IsAdmin())

		require.NoError(t, api.Login(ctx, TestAdminUsername, TestAdminPassword))
		assert.True(t, session.IsAdmin())
	})

	directory := console.NewDirectory(api, slog.New(slog.DiscardHandler))
	moderation := console.NewModeration(api, directory)

	t.Run("Approve First Team", func(t *testing.T) {
		require.NoError(t, moderation.Approve(ctx, firstTeamID))

		// Каталог перечитан: статус отражает серверную истину
		var approved *domain.Team
		for _, team := range directory.Visible() {
			if team.ID == firstTeamID {
				approved = team
			}
		}
		require.NotNil(t, approved)
		assert.Equal(t, domain.StatusApproved, approved.Status)
		assert.Nil(t, approved.AdminRemarks)
	})

	t.Run("Moderation Is One-Shot", func(t *testing.T) {
		err := moderation.Reject(ctx, firstTeamID, "changed my mind")
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "ALREADY_MODERATED", apiErr.Code)
	})

	t.Run("Reject Second Team with Remarks", func(t *testing.T) {
		// Пустые замечания отбрасываются до сети
		err := moderation.Reject(ctx, secondTeamID, "  ")
		require.True(t, errors.Is(err, domain.ErrRemarksRequired))

		require.NoError(t, moderation.Reject(ctx, secondTeamID, "Impact statement lacks specifics"))

		var rejected *domain.Team
		for _, team := range directory.Visible() {
			if team.ID == secondTeamID {
				rejected = team
			}
		}
		require.NotNil(t, rejected)
		assert.Equal(t, domain.StatusRejected, rejected.Status)
		require.NotNil(t, rejected.AdminRemarks)
		assert.Equal(t, "Impact statement lacks specifics", *rejected.AdminRemarks)
	})

	t.Run("Directory Stats", func(t *testing.T) {
		stats, err := api.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 0, stats.Pending)
		assert.Equal(t, 1, stats.Approved)
		assert.Equal(t, 1, stats.Rejected)
	})

	t.Run("Delete Team", func(t *testing.T) {
		require.NoError(t, moderation.Delete(ctx, secondTeamID))

		list, err := api.ListTeams(ctx, 1, 9, "")
		require.NoError(t, err)
		assert.Equal(t, 1, list.Total)

		// Повторное удаление: команды больше нет
		err = moderation.Delete(ctx, secondTeamID)
		require.Error(t, err)

		var apiErr *client.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	})
}
