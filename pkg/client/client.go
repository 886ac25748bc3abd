package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thoughtminds/mindmesh/internal/domain"
)

// APIError представляет ошибку, возвращенную сервером
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error реализует интерфейс error
func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// TeamList представляет страницу каталога команд
type TeamList struct {
	Teams      []*domain.Team `json:"teams"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// Stats содержит счетчики каталога по статусам
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// CreateTeamRequest представляет заявку на регистрацию команды
type CreateTeamRequest struct {
	TeamName          string              `json:"team_name"`
	IdeaDescription   string              `json:"idea_description"`
	ImpactDescription string              `json:"impact_description"`
	Members           []domain.TeamMember `json:"members"`
}

// Client это HTTP клиент API платформы MindMesh.
// К каждому исходящему запросу подставляется bearer-токен из сессии,
// если он есть. Ответ 401 от любого эндпоинта сбрасывает сессию и
// вызывает хук onUnauthorized (возврат на главную в UI).
type Client struct {
	baseURL        string
	httpClient     *http.Client
	session        *Session
	onUnauthorized func()
}

// Option настраивает Client
type Option func(*Client)

// WithHTTPClient подменяет транспорт (таймауты, прокси)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUnauthorizedHook задает обработчик глобального 401
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// New создает клиент. baseURL задается одной переменной окружения
// на стороне вызывающего, суффикс /api/v1 добавляется здесь.
func New(baseURL string, session *Session, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session возвращает сессию клиента
func (c *Client) Session() *Session {
	return c.session
}

// Login аутентифицирует администратора и сохраняет токен в сессии
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/login", body, &resp); err != nil {
		return err
	}
	c.session.SetToken(resp.Token)
	return nil
}

// ListTeams возвращает страницу каталога команд
func (c *Client) ListTeams(ctx context.Context, page, pageSize int, search string) (*TeamList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	if search != "" {
		query.Set("search", search)
	}

	var list TeamList
	if err := c.do(ctx, http.MethodGet, "/teams?"+query.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateTeam регистрирует новую команду
func (c *Client) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*domain.Team, error) {
	var team domain.Team
	if err := c.do(ctx, http.MethodPost, "/teams", req, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// UpdateStatus переводит команду в терминальный статус (эндпоинт администратора)
func (c *Client) UpdateStatus(ctx context.Context, teamID string, status domain.TeamStatus, remarks string) (*domain.Team, error) {
	body := map[string]string{"status": string(status)}
	if remarks != "" {
		body["remarks"] = remarks
	}

	var team domain.Team
	if err := c.do(ctx, http.MethodPost, "/admin/teams/"+teamID+"/status", body, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam удаляет команду (эндпоинт администратора)
func (c *Client) DeleteTeam(ctx context.Context, teamID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/teams/"+teamID, nil, nil)
}

// GetStats возвращает счетчики каталога
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/teams/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do выполняет запрос: сериализация тела, bearer-токен, разбор ответа.
// Никаких повторов — любая сетевая ошибка терминальна для действия пользователя.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Глобальная политика: 401 сбрасывает сессию и уводит на главную
		c.session.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &APIError{StatusCode: resp.StatusCode, Code: "UNAUTHORIZED", Message: "unauthorized"}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.parseError(resp)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// parseError разбирает тело ошибки сервера в APIError
func (c *Client) parseError(resp *http.Response) error {
	var apiResp struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err == nil && apiResp.Error.Code != "" {
		apiErr.Code = apiResp.Error.Code
		apiErr.Message = apiResp.Error.Message
	} else {
		apiErr.Code = "UNKNOWN"
		apiErr.Message = resp.Status
	}

	return apiErr
}
