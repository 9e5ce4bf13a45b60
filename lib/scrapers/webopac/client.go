package webopac

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bibassist-backend/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const startPath = "/webOPACClient/start.do"
const searchPath = "/webOPACClient/search.do"
const loginPath = "/webOPACClient/login.do"

// Restriction is one of the catalogue's indexed search facet triples.
type Restriction struct {
	Id     string
	Value1 string
	Value2 string
}

// the OPAC expects exactly these three facets on every search submit, in
// this order: media type (8), branch (6), date range (3). values stay blank
// unless the caller's filter selection fills them.
func DefaultRestrictions() []Restriction {
	return []Restriction{
		{Id: "8"},
		{Id: "6"},
		{Id: "3"},
	}
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	Session *CookieStore
	// per-session correlation token minted by the start page, required on
	// all subsequent calls
	CSId string
}

type ClientOptions struct {
	BaseUrl string
	// optional, a fresh store is created when nil
	Session *CookieStore
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	session := opts.Session
	if session == nil {
		session = NewCookieStore()
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	// cookies flow through the session store explicitly, the response
	// content decides when a session died, not a jar's expiry clock
	client.SetCookieJar(nil)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))
	client.SetTimeout(time.Second * 30)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	c := &Client{
		BaseUrl: baseUrl,
		Http:    client,
		Session: session,
	}
	return c, nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.Http.R().SetContext(ctx)
	for name, value := range c.Session.Snapshot() {
		req.SetCookie(&http.Cookie{Name: name, Value: value})
	}
	return req
}

// parses a response into a document and folds its cookies into the session
// store. a session-expired marker in the document is reported as
// ErrSessionExpired alongside the parsed document.
func (c *Client) absorb(res *resty.Response) (*goquery.Document, error) {
	c.Session.MergeResponse(res)

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		return nil, err
	}
	if isSessionExpired(doc) {
		return doc, ErrSessionExpired
	}
	return doc, nil
}

// anonymous GET of the catalogue landing page. mints the CSId token from a
// hidden form field; a missing token means no session could be established.
func (c *Client) FetchStartPage(ctx context.Context) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchStartPage")
	defer span.End()

	res, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"Login":   "webopac",
			"BaseURL": "this",
		}).
		Get(startPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch start page")
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	doc, err := c.absorb(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse start page")
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	csid := doc.Find("input[name=CSId]").AttrOr("value", "")
	if csid == "" {
		span.SetStatus(codes.Error, "start page has no CSId field")
		return nil, ErrNoSession
	}
	c.CSId = csid
	return doc, nil
}

type SubmitSearchOptions struct {
	ViewBranch   string
	SearchBranch string
	// nil means DefaultRestrictions
	Restrictions []Restriction
}

// submits a search for the given term using the current CSId and cookies.
// the search category is pinned to "any field".
func (c *Client) SubmitSearch(ctx context.Context, term string, opts SubmitSearchOptions) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:SubmitSearch")
	defer span.End()

	restrictions := opts.Restrictions
	if restrictions == nil {
		restrictions = DefaultRestrictions()
	}

	form := map[string]string{
		"searchCategories[0]":     "-1",
		"searchString[0]":         term,
		"callingPage":             "searchParameters",
		"selectedViewBranchlib":   opts.ViewBranch,
		"selectedSearchBranchlib": opts.SearchBranch,
	}
	for i, r := range restrictions {
		form[fmt.Sprintf("searchRestrictionID[%d]", i)] = r.Id
		form[fmt.Sprintf("searchRestrictionValue1[%d]", i)] = r.Value1
		form[fmt.Sprintf("searchRestrictionValue2[%d]", i)] = r.Value2
	}

	res, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"methodToCall":          "submit",
			"CSId":                  c.CSId,
			"methodToCallParameter": "submitSearch",
		}).
		SetFormData(form).
		Post(searchPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit search")
		return nil, err
	}

	doc, err := c.absorb(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse search response")
		return nil, err
	}
	return doc, nil
}

// GET an absolute catalogue URL (next-page and item-detail links) with the
// current cookie set attached.
func (c *Client) FetchPage(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPage")
	defer span.End()

	res, err := c.request(ctx).Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}

	doc, err := c.absorb(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse page")
		return nil, err
	}
	return doc, nil
}

// resolves a possibly relative catalogue link against the base host.
func (c *Client) AbsoluteUrl(href string) string {
	link, err := c.BaseUrl.Parse(href)
	if err != nil {
		return href
	}
	return link.String()
}

func (c *Client) Login(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	res, err := c.request(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
			"CSId":     c.CSId,
		}).
		Post(loginPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post login")
		return err
	}

	doc, err := c.absorb(res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login response")
		return err
	}

	if marker := loginErrorText(doc); marker != "" {
		span.SetStatus(codes.Error, LoginFailed.Error())
		return fmt.Errorf("%w: %s", LoginFailed, marker)
	}
	return nil
}

const pageSize = 10

// reads the zero-based offset of the last result page from the "Letzte
// Seite" link. without the link the result set is a single page.
func discoverTotalPages(doc *goquery.Document) int {
	href := doc.Find(`a[title="Letzte Seite"]`).AttrOr("href", "")
	if href == "" {
		return 1
	}
	link, err := url.Parse(href)
	if err != nil {
		return 1
	}
	curPos, err := strconv.Atoi(link.Query().Get("curPos"))
	if err != nil || curPos < 0 {
		return 1
	}
	return curPos/pageSize + 1
}

func nextPageLink(doc *goquery.Document) string {
	return doc.Find(`a[title="Nächste Seite"]`).AttrOr("href", "")
}
