package web

import (
	"log/slog"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/starford/suppai/internal/apperr"
	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/query"
	"github.com/starford/suppai/internal/view"
)

// layout is embedded by every page model.
type layout struct {
	Site      Site
	Title     string
	Canonical string
	Meta      *models.IndexMeta
	Query     string
}

func (s *Server) layout(r *http.Request, title string, meta *models.IndexMeta) layout {
	l := layout{Site: s.site, Title: s.site.Title, Meta: meta}
	if title != "" {
		l.Title = title + " | " + s.site.Title
	}
	if s.site.CanonicalOrigin != "" {
		l.Canonical = s.site.CanonicalOrigin + r.URL.EscapedPath()
	}
	return l
}

// agentLink is an agent reduced to what list templates print.
type agentLink struct {
	Name string
	Path string
	Type models.AgentType
}

func linkTo(a *models.Agent) agentLink {
	return agentLink{Name: a.PreferredName, Path: a.Path(), Type: a.EntType}
}

type searchResult struct {
	agentLink
	Name              []view.Segment
	Matches           []view.Match
	InteractsWith     int
	DefinitionExcerpt string
}

type homePage struct {
	layout
	Searched bool
	Results  []searchResult
	Total    int
	Pager    view.Pager
}

type evidenceItem struct {
	Title     string
	URL       string
	Meta      string
	Retracted bool
	Sentences [][]view.Segment
}

func evidenceItems(evs []models.Evidence, agents map[string]*models.Agent) []evidenceItem {
	out := make([]evidenceItem, 0, len(evs))
	for _, ev := range evs {
		item := evidenceItem{
			Title:     ev.Paper.Title,
			URL:       ev.Paper.URL(),
			Meta:      view.PaperMeta(ev.Paper),
			Retracted: bool(ev.Paper.Retraction),
		}
		for _, s := range ev.Sentences {
			item.Sentences = append(item.Sentences, view.SentenceSegments(s, agents))
		}
		out = append(out, item)
	}
	return out
}

type interactionRow struct {
	Agent    agentLink
	Path     string
	Window   view.EvidenceWindow
	Evidence []evidenceItem
}

// agentInfo is the summary box shown for an agent on its own page and on
// each interaction page.
type agentInfo struct {
	Link          agentLink
	CUI           string
	Definition    string
	Synonyms      view.Truncated
	Tradenames    view.Truncated
	SynonymsURL   string
	TradenamesURL string
}

// infoFor builds the box for a. The expand keys are prefixed so that boxes
// sharing a page toggle independently.
func infoFor(r *http.Request, a *models.Agent, prefix string) agentInfo {
	expand := r.URL.Query()["expand"]
	synonyms, tradenames := prefix+"synonyms", prefix+"tradenames"
	info := agentInfo{
		Link:          linkTo(a),
		CUI:           a.CUI,
		Synonyms:      view.TruncateList(a.Synonyms, view.MaxListChars, slices.Contains(expand, synonyms)),
		Tradenames:    view.TruncateList(a.Tradenames, view.MaxListChars, slices.Contains(expand, tradenames)),
		SynonymsURL:   toggleURL(r, synonyms),
		TradenamesURL: toggleURL(r, tradenames),
	}
	if a.HasDefinition() {
		info.Definition = a.Definition
	}
	return info
}

type agentPage struct {
	layout
	Agent        *models.Agent
	Info         agentInfo
	Filter       string
	Interactions []interactionRow
	Total        int
	Pager        view.Pager
}

type interactionPage struct {
	layout
	ID       string
	Agents   [2]agentInfo
	Window   view.EvidenceWindow
	Evidence []evidenceItem
	MoreURL  string
}

type errorPage struct {
	layout
	Status  int
	Message string
}

// Home handles GET /.
func (s *Server) Home(w http.ResponseWriter, r *http.Request) {
	state := query.Search.Parse(r.URL.Query())

	var (
		meta    *models.IndexMeta
		results *models.SearchResponse
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		meta, err = s.backend.FetchIndexMeta(ctx)
		return err
	})
	if state.Text != "" {
		g.Go(func() error {
			res, err := s.backend.SearchForAgents(ctx, state.Text, state.Page)
			if err != nil {
				s.logger.Warn("search failed", slog.String("query", state.Text), slog.String("error", err.Error()))
				res = &models.SearchResponse{Query: models.Query{Q: state.Text, P: state.Page}}
			}
			results = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.renderError(w, r, err)
		return
	}

	page := homePage{layout: s.layout(r, "", meta)}
	page.Query = state.Text
	if results != nil {
		page.Searched = true
		page.Total = results.TotalResults
		page.Pager = view.NewPager("/", query.Search, state, results.TotalPages)
		for i := range results.Results {
			a := &results.Results[i]
			page.Results = append(page.Results, searchResult{
				agentLink:         linkTo(a),
				Name:              view.Highlight(a.PreferredName, state.Text),
				Matches:           view.AgentMatches(*a, state.Text),
				InteractsWith:     a.InteractsWithCount,
				DefinitionExcerpt: view.Truncate(a.Definition, 160),
			})
		}
	}
	s.render(w, r, http.StatusOK, "home", page)
}

// AgentRedirect handles GET /a/{cui} by redirecting to the slugged path.
func (s *Server) AgentRedirect(w http.ResponseWriter, r *http.Request) {
	cui, err := pathParam(r, "cui")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	agent, err := s.backend.FetchAgent(r.Context(), cui)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	redirect(w, r, agent.Path())
}

// Agent handles GET /a/{slug}/{cui}.
func (s *Server) Agent(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	cui, err := pathParam(r, "cui")
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	values := r.URL.Query()
	state := query.Interactions.Parse(values)

	var (
		agent *models.Agent
		meta  *models.IndexMeta
		list  *models.InteractionsPage
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		agent, err = s.backend.FetchAgent(ctx, cui)
		return err
	})
	g.Go(func() (err error) {
		meta, err = s.backend.FetchIndexMeta(ctx)
		return err
	})
	g.Go(func() (err error) {
		list, err = s.backend.FetchInteractions(ctx, cui, state.Page, state.FilterPtr())
		return err
	})
	if err := g.Wait(); err != nil {
		s.renderError(w, r, err)
		return
	}
	if !sameSlug(agent.Slug, slug) {
		redirect(w, r, agent.Path())
		return
	}

	page := agentPage{
		layout: s.layout(r, agent.PreferredName, meta),
		Agent:  agent,
		Info:   infoFor(r, agent, ""),
		Filter: state.Filter,
		Total:  list.Total,
		Pager:  view.NewPager(agent.Path(), query.Interactions, state, list.TotalPages()),
	}
	page.Query = state.Text

	for i := range list.Interactions {
		ia := &list.Interactions[i]
		agents := map[string]*models.Agent{agent.CUI: agent, ia.Agent.CUI: &ia.Agent}
		win := view.NewEvidenceWindow(len(ia.Evidence), view.EvidencePageSize, view.EvidencePageSize, view.EvidencePageSize)
		page.Interactions = append(page.Interactions, interactionRow{
			Agent:    linkTo(&ia.Agent),
			Path:     ia.Path(),
			Window:   win,
			Evidence: evidenceItems(view.Slice(ia.Evidence, win), agents),
		})
	}
	s.render(w, r, http.StatusOK, "agent", page)
}

// Interaction handles GET /i/{slug}/{interaction_id}.
func (s *Server) Interaction(w http.ResponseWriter, r *http.Request) {
	slug, err := slugParam(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	id, err := pathParam(r, "interaction_id")
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	var (
		def  *models.InteractionDefinition
		meta *models.IndexMeta
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		def, err = s.backend.FetchInteraction(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		meta, err = s.backend.FetchIndexMeta(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.renderError(w, r, err)
		return
	}
	if !sameSlug(def.Slug, slug) {
		redirect(w, r, def.Path())
		return
	}

	shown := intParam(r, "shown", view.InteractionEvidencePageSize)
	win := view.NewEvidenceWindow(len(def.Evidence), shown, view.InteractionEvidencePageSize, 0)
	title := def.Agents[0].PreferredName + " and " + def.Agents[1].PreferredName
	page := interactionPage{
		layout: s.layout(r, title, meta),
		ID:     def.InteractionID,
		Agents: [2]agentInfo{
			infoFor(r, &def.Agents[0], def.Agents[0].CUI+"-"),
			infoFor(r, &def.Agents[1], def.Agents[1].CUI+"-"),
		},
		Window:   win,
		Evidence: evidenceItems(view.Slice(def.Evidence, win), def.AgentsByCUI()),
	}
	if win.HasMore() {
		page.MoreURL = withParam(r, "shown", win.NextShown())
	}
	s.render(w, r, http.StatusOK, "interaction", page)
}

// Docs handles GET /docs/api.
func (s *Server) Docs(w http.ResponseWriter, r *http.Request) {
	meta, err := s.backend.FetchIndexMeta(r.Context())
	if err != nil {
		s.logger.Warn("meta unavailable for docs", slog.String("error", err.Error()))
	}
	s.render(w, r, http.StatusOK, "docs", s.layout(r, "API", meta))
}

// Suggest handles GET /suggest. Failures degrade to an empty list.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := query.Text(r.URL.Query(), "q")
	res, err := s.backend.FetchSuggestions(r.Context(), q)
	if err != nil {
		s.logger.Warn("suggest failed", slog.String("query", q), slog.String("error", err.Error()))
		res = &models.SuggestResponse{Query: models.Query{Q: q}, Results: []models.Agent{}}
	}
	writeJSON(w, http.StatusOK, res)
}

// NotFound renders the 404 page for unknown routes.
func (s *Server) NotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, apperr.ErrNotFound)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := s.renderer.Render(w, r, status, page, data); err != nil {
		s.logger.Error("render failed", slog.String("page", page), slog.String("url", r.URL.RequestURI()), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	msg := "Something went wrong while loading this page. Please try again later."
	switch status {
	case http.StatusNotFound:
		msg = "The page you requested could not be found."
	case http.StatusBadRequest:
		msg = "The address you requested is not valid."
	default:
		s.logger.Error("page load failed", slog.String("url", r.URL.RequestURI()), slog.String("error", err.Error()))
	}
	page := errorPage{layout: s.layout(r, http.StatusText(status), nil), Status: status, Message: msg}
	s.render(w, r, status, "error", page)
}

// redirect answers 301 to path, keeping the request's query string.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, path, http.StatusMovedPermanently)
}
