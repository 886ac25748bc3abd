package console

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/thoughtminds/mindmesh/internal/domain"
	"github.com/thoughtminds/mindmesh/pkg/client"
)

// SortOrder задает порядок сортировки каталога
type SortOrder string

// Поддерживаемые порядки сортировки
const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// StatusFilter фильтрует каталог по нормализованному статусу
type StatusFilter string

// StatusAll пропускает команды со всеми статусами
const StatusAll StatusFilter = "all"

// Размер страницы каталога и размер пачки при загрузке.
// Каталог забирает команды одним запросом и дальше фильтрует в памяти,
// поэтому ввод в строку поиска не порождает сетевых запросов.
const (
	DirectoryPageSize = 9
	loadBatchSize     = 200
)

// FilterTeams оставляет команды, подходящие под поисковую строку и фильтр
// статуса. Поиск — регистронезависимое вхождение в имя, идею или
// impact-описание (ИЛИ по полям); оба фильтра комбинируются через И.
func FilterTeams(teams []*domain.Team, query string, status StatusFilter) []*domain.Team {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]*domain.Team, 0, len(teams))
	for _, team := range teams {
		if status != StatusAll && team.Status != domain.TeamStatus(status) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(team.TeamName), query) &&
			!strings.Contains(strings.ToLower(team.IdeaDescription), query) &&
			!strings.Contains(strings.ToLower(team.ImpactDescription), query) {
			continue
		}
		out = append(out, team)
	}
	return out
}

// SortTeams возвращает новый срез, отсортированный по времени создания.
// Сортировка стабильная: равные элементы сохраняют исходный порядок.
// Команды без отметки времени считаются самыми ранними.
func SortTeams(teams []*domain.Team, order SortOrder) []*domain.Team {
	out := make([]*domain.Team, len(teams))
	copy(out, teams)

	newerThan := func(i, j int) bool {
		a, b := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	}

	if order == SortOldest {
		sort.SliceStable(out, func(i, j int) bool { return newerThan(j, i) })
	} else {
		sort.SliceStable(out, newerThan)
	}
	return out
}

// PaginateTeams возвращает срез страницы [(page-1)*pageSize, page*pageSize)
func PaginateTeams(teams []*domain.Team, page, pageSize int) []*domain.Team {
	start := (page - 1) * pageSize
	if start >= len(teams) || start < 0 {
		return nil
	}
	end := start + pageSize
	if end > len(teams) {
		end = len(teams)
	}
	return teams[start:end]
}

// Directory это контроллер публичного каталога команд. Держит
// read-mostly копию списка, обновляемую целиком по требованию, и
// выполняет поиск, фильтрацию, сортировку и пагинацию локально.
type Directory struct {
	api    *client.Client
	logger *slog.Logger

	mu       sync.Mutex
	allTeams []*domain.Team
	query    string
	status   StatusFilter
	order    SortOrder
	page     int

	selected     *domain.Team
	remarksDraft string
	closed       bool
}

// NewDirectory создает каталог с фильтрами по умолчанию
func NewDirectory(api *client.Client, logger *slog.Logger) *Directory {
	return &Directory{
		api:    api,
		logger: logger,
		status: StatusAll,
		order:  SortNewest,
		page:   1,
	}
}

// Load забирает ограниченную пачку команд одним запросом и замещает
// локальную копию целиком. При ошибке прежний список остается нетронутым,
// ошибка только логируется. Ответ, пришедший после Close, отбрасывается.
func (d *Directory) Load(ctx context.Context) {
	list, err := d.api.ListTeams(ctx, 1, loadBatchSize, "")
	if err != nil {
		d.logger.Error("failed to load teams", "error", err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.allTeams = list.Teams
}

// SetQuery меняет поисковую строку и сбрасывает страницу
func (d *Directory) SetQuery(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.query = query
	d.page = 1
}

// SetStatusFilter меняет фильтр статуса и сбрасывает страницу
func (d *Directory) SetStatusFilter(status StatusFilter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
	d.page = 1
}

// SetSort меняет порядок сортировки и сбрасывает страницу
func (d *Directory) SetSort(order SortOrder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order = order
	d.page = 1
}

// Page возвращает текущую страницу
func (d *Directory) Page() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}

// SetPage переходит на страницу, ограничивая номер доступным диапазоном
func (d *Directory) SetPage(page int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	total := d.totalPagesLocked()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	d.page = page
}

// Visible возвращает текущую страницу после фильтрации и сортировки
func (d *Directory) Visible() []*domain.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	filtered := SortTeams(FilterTeams(d.allTeams, d.query, d.status), d.order)
	return PaginateTeams(filtered, d.page, DirectoryPageSize)
}

// TotalPages возвращает количество страниц после фильтрации
func (d *Directory) TotalPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalPagesLocked()
}

func (d *Directory) totalPagesLocked() int {
	count := len(FilterTeams(d.allTeams, d.query, d.status))
	pages := (count + DirectoryPageSize - 1) / DirectoryPageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Select открывает карточку команды. Черновик замечаний предыдущей
// карточки сбрасывается: текст не перетекает между командами.
func (d *Directory) Select(team *domain.Team) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = team
	d.remarksDraft = ""
}

// Selected возвращает открытую карточку (nil если не выбрана)
func (d *Directory) Selected() *domain.Team {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// Deselect закрывает карточку и сбрасывает черновик замечаний
func (d *Directory) Deselect() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = nil
	d.remarksDraft = ""
}

// RemarksDraft возвращает черновик замечаний для открытой карточки
func (d *Directory) RemarksDraft() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.remarksDraft
}

// SetRemarksDraft сохраняет черновик замечаний
func (d *Directory) SetRemarksDraft(remarks string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remarksDraft = remarks
}

// Close помечает контроллер размонтированным: поздние ответы Load
// больше не обновляют состояние
func (d *Directory) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}
