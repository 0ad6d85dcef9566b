package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/suppai/internal/apiclient"
	"github.com/starford/suppai/internal/models"
	"github.com/starford/suppai/internal/testutil"
)

func testServer(t *testing.T) (*Server, *testutil.Backend) {
	t.Helper()
	b := testutil.NewBackend(t)
	return New(apiclient.New(b.URL()), "test"), b
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	handlers := map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"search_agents":     srv.searchAgents,
		"suggest_agents":    srv.suggestAgents,
		"get_agent":         srv.getAgent,
		"list_interactions": srv.listInteractions,
		"get_interaction":   srv.getInteraction,
		"get_index_meta":    srv.getIndexMeta,
		"get_usage_guide":   srv.getUsageGuide,
	}
	h, ok := handlers[name]
	if !ok {
		t.Fatalf("unknown tool: %s", name)
	}
	result, err := h(ctx, req)
	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func decode[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("tool error: %s", resultText(r))
	}
	var v T
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode %q: %v", resultText(r), err)
	}
	return v
}

func TestSearchAgents(t *testing.T) {
	srv, b := testServer(t)
	res := decode[models.SearchResponse](t, callTool(t, srv, "search_agents", map[string]interface{}{
		"query": "ginkgo",
		"page":  float64(0),
	}))
	if res.TotalResults != 1 || res.Results[0].CUI != testutil.GinkgoCUI {
		t.Errorf("unexpected results: %+v", res)
	}
	if got := b.LastQuery("/api/agent/search").Get("p"); got != "0" {
		t.Errorf("p = %q", got)
	}
}

func TestSuggestAgents(t *testing.T) {
	srv, _ := testServer(t)
	res := decode[models.SuggestResponse](t, callTool(t, srv, "suggest_agents", map[string]interface{}{"query": "asp"}))
	if res.Total != 1 || res.Results[0].CUI != testutil.AspirinCUI {
		t.Errorf("unexpected suggestions: %+v", res)
	}
}

func TestGetAgent(t *testing.T) {
	srv, _ := testServer(t)
	a := decode[models.Agent](t, callTool(t, srv, "get_agent", map[string]interface{}{"cui": testutil.WarfarinCUI}))
	if a.PreferredName != "Warfarin" || a.EntType != models.AgentTypeDrug {
		t.Errorf("unexpected agent: %+v", a)
	}
}

func TestGetAgentMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_agent", map[string]interface{}{"cui": "C0000000"})
	if !r.IsError {
		t.Fatal("expected error for unknown agent")
	}
	if !strings.Contains(resultText(r), "404") {
		t.Errorf("error text = %q", resultText(r))
	}
}

func TestGetAgentRequiresCUI(t *testing.T) {
	srv, _ := testServer(t)
	if r := callTool(t, srv, "get_agent", map[string]interface{}{}); !r.IsError {
		t.Fatal("expected error without cui")
	}
}

func TestListInteractionsFilter(t *testing.T) {
	srv, b := testServer(t)
	page := decode[models.InteractionsPage](t, callTool(t, srv, "list_interactions", map[string]interface{}{
		"cui":    testutil.GinkgoCUI,
		"filter": "aspirin",
	}))
	if page.Total != 1 || page.Interactions[0].InteractionID != testutil.GinkgoAspirinID {
		t.Errorf("unexpected page: %+v", page)
	}
	if got := b.LastQuery("/api/agent/C0330205/interactions").Get("q"); got != "aspirin" {
		t.Errorf("q = %q", got)
	}

	page = decode[models.InteractionsPage](t, callTool(t, srv, "list_interactions", map[string]interface{}{
		"cui": testutil.GinkgoCUI,
	}))
	if page.Total != 2 {
		t.Errorf("unfiltered total = %d", page.Total)
	}
	if b.LastQuery("/api/agent/C0330205/interactions").Has("q") {
		t.Error("blank filter was sent")
	}
}

func TestGetInteraction(t *testing.T) {
	srv, _ := testServer(t)
	def := decode[models.InteractionDefinition](t, callTool(t, srv, "get_interaction", map[string]interface{}{
		"interaction_id": testutil.GinkgoWarfarinID,
	}))
	if len(def.Evidence) != 12 {
		t.Errorf("evidence = %d, want 12", len(def.Evidence))
	}
}

func TestGetIndexMeta(t *testing.T) {
	srv, b := testServer(t)
	meta := decode[models.IndexMeta](t, callTool(t, srv, "get_index_meta", nil))
	if meta.AgentCount != 2044 {
		t.Errorf("agent_count = %d", meta.AgentCount)
	}

	b.FailWith("/api/meta", http.StatusServiceUnavailable)
	if r := callTool(t, srv, "get_index_meta", nil); !r.IsError {
		t.Error("expected tool error when backend fails")
	}
}

func TestUsageGuide(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_usage_guide", nil))
	if !strings.Contains(text, "not\nmedical advice") {
		t.Errorf("guide missing disclaimer")
	}
}
