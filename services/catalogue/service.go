package catalogue

import (
	"context"
	"time"

	"bibassist-backend/lib/scrapers/webopac"
	"bibassist-backend/lib/telemetry"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var tracer = telemetry.Tracer("bibassist.services.catalogue")

// Settings are the user's stored preferences folded into every search.
type Settings struct {
	// page cap per search, 3 when unset
	MaxPages int `json:"max_pages"`
	// branch shown in result lists
	ViewBranch string `json:"view_branch"`
	// branch restriction, blank searches all branches
	SearchBranch string `json:"search_branch"`
	// allow-list of medium labels, empty allows everything
	MediaTypes []string `json:"media_types"`
	// keep only unavailable items due back before this date (dd.mm.yyyy)
	DueDateBefore string `json:"due_date_before"`
	// publication year range for the catalogue's date facet
	YearFrom string `json:"year_from"`
	YearTo   string `json:"year_to"`
}

type Service struct {
	baseUrl  string
	settings Settings
	// logged-in clients per library-card number, the anonymous browse
	// session lives under the empty key. entries expire so a stale OPAC
	// session is re-bootstrapped instead of reused.
	sessions *expirable.LRU[string, *webopac.Client]
}

type ServiceOptions struct {
	BaseUrl  string
	Settings Settings
}

func NewService(opts ServiceOptions) Service {
	return Service{
		baseUrl:  opts.BaseUrl,
		settings: opts.Settings,
		sessions: expirable.NewLRU[string, *webopac.Client](64, nil, time.Minute*15),
	}
}

// translates the settings into the three facet triples the OPAC expects.
// the media-type facet only binds when the allow-list names exactly one
// kind, broader selections are filtered client-side instead.
func (s Service) restrictions() []webopac.Restriction {
	restrictions := webopac.DefaultRestrictions()

	if len(s.settings.MediaTypes) == 1 {
		kind := webopac.MediumFromMarkup(s.settings.MediaTypes[0])
		restrictions[0].Value1 = kind.QueryParam()
	}
	restrictions[1].Value1 = s.settings.SearchBranch
	restrictions[2].Value1 = s.settings.YearFrom
	restrictions[2].Value2 = s.settings.YearTo
	return restrictions
}

func (s Service) searchOptions() webopac.SearchOptions {
	return webopac.SearchOptions{
		MaxPages:     s.settings.MaxPages,
		ViewBranch:   s.settings.ViewBranch,
		SearchBranch: s.settings.SearchBranch,
		Restrictions: s.restrictions(),
	}
}

func (s Service) client(ctx context.Context, account string) (*webopac.Client, error) {
	cached, hit := s.sessions.Get(account)
	if hit {
		return cached, nil
	}

	client, err := webopac.NewClient(ctx, webopac.ClientOptions{BaseUrl: s.baseUrl})
	if err != nil {
		return nil, err
	}
	s.sessions.Add(account, client)
	return client, nil
}

// Search runs an anonymous catalogue search with the configured settings
// folded in. media-type and due-date filters apply to every emitted event.
func (s Service) Search(ctx context.Context, term string) (<-chan webopac.SearchProgress, error) {
	ctx, span := tracer.Start(ctx, "service:Search")
	defer span.End()

	client, err := s.client(ctx, "")
	if err != nil {
		return nil, err
	}
	progress := client.Search(ctx, term, s.searchOptions())
	return s.filterProgress(ctx, progress), nil
}

// Item resolves one catalogue item. availability comes from the list
// context the caller found the item in.
func (s Service) Item(ctx context.Context, itemUrl string, available bool) (*webopac.Item, error) {
	ctx, span := tracer.Start(ctx, "service:Item")
	defer span.End()

	client, err := s.client(ctx, "")
	if err != nil {
		return nil, err
	}
	if client.CSId == "" {
		_, err := client.FetchStartPage(ctx)
		if err != nil {
			return nil, err
		}
	}
	return client.ResolveItem(ctx, itemUrl, available)
}

// Login bootstraps a fresh session and authenticates the account. the
// logged-in client replaces any cached session for that account.
func (s Service) Login(ctx context.Context, account, password string) error {
	ctx, span := tracer.Start(ctx, "service:Login")
	defer span.End()

	client, err := webopac.NewClient(ctx, webopac.ClientOptions{BaseUrl: s.baseUrl})
	if err != nil {
		return err
	}
	_, err = client.FetchStartPage(ctx)
	if err != nil {
		return err
	}
	err = client.Login(ctx, account, password)
	if err != nil {
		return err
	}

	s.sessions.Add(account, client)
	return nil
}

// Logout drops the account's session and its cookies.
func (s Service) Logout(account string) {
	client, hit := s.sessions.Get(account)
	if hit {
		client.Session.Reset()
	}
	s.sessions.Remove(account)
}
