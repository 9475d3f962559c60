package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/session"
)

// GraphQLRequest represents a GraphQL HTTP request
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

type contextKey string

const sessionContextKey contextKey = "session"

func sessionFromContext(ctx context.Context) (*session.Session, error) {
	sess, ok := ctx.Value(sessionContextKey).(*session.Session)
	if !ok || sess == nil {
		return nil, fmt.Errorf("no session bound to request")
	}
	return sess, nil
}

func viewFromContext(ctx context.Context) (*graph.Graph, error) {
	sess, err := sessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return sess.View()
}

// GraphQLHandler serves the read-only GraphQL view of a session's graph.
type GraphQLHandler struct {
	sessions *session.Manager
	schema   graphql.Schema
}

// NewGraphQLHandler builds the schema and wraps it in an HTTP handler.
func NewGraphQLHandler(sessions *session.Manager) *GraphQLHandler {
	schema, err := buildSchema()
	if err != nil {
		// The schema is static; a failure here is a programming error.
		panic(fmt.Sprintf("building GraphQL schema: %v", err))
	}
	return &GraphQLHandler{sessions: sessions, schema: schema}
}

func buildSchema() (graphql.Schema, error) {
	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id":                   scalarField(graphql.NewNonNull(graphql.ID), func(n *graph.Node) any { return n.ID }),
			"isAParty":             scalarField(graphql.Boolean, func(n *graph.Node) any { return n.IsAParty }),
			"isHub":                scalarField(graphql.Boolean, func(n *graph.Node) any { return n.IsHub }),
			"outgoingCount":        scalarField(graphql.Int, func(n *graph.Node) any { return n.OutgoingCount }),
			"incomingCount":        scalarField(graphql.Int, func(n *graph.Node) any { return n.IncomingCount }),
			"callCount":            scalarField(graphql.Int, func(n *graph.Node) any { return n.CallCount }),
			"totalDurationSeconds": scalarField(graphql.Int, func(n *graph.Node) any { return int(n.TotalDurationSeconds) }),
			"firstSeenMs":          scalarField(graphql.Float, func(n *graph.Node) any { return float64(n.FirstSeenMs) }),
			"lastSeenMs":           scalarField(graphql.Float, func(n *graph.Node) any { return float64(n.LastSeenMs) }),
			"associatedTowers":     scalarField(graphql.NewList(graphql.String), func(n *graph.Node) any { return n.Towers() }),
			"fileIds":              scalarField(graphql.NewList(graphql.String), func(n *graph.Node) any { return n.Files() }),
			"lastKnownDeviceId":    scalarField(graphql.String, func(n *graph.Node) any { return n.LastKnownDeviceID }),
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"id":                 edgeField(graphql.NewNonNull(graphql.ID), func(e *graph.Edge) any { return e.ID }),
			"sourceId":           edgeField(graphql.String, func(e *graph.Edge) any { return e.SourceID }),
			"targetId":           edgeField(graphql.String, func(e *graph.Edge) any { return e.TargetID }),
			"usageType":          edgeField(graphql.String, func(e *graph.Edge) any { return e.UsageType }),
			"callCount":          edgeField(graphql.Int, func(e *graph.Edge) any { return e.CallCount }),
			"durationSumSeconds": edgeField(graphql.Int, func(e *graph.Edge) any { return int(e.DurationSumSeconds) }),
			"firstCallMs":        edgeField(graphql.Float, func(e *graph.Edge) any { return float64(e.FirstCallMs) }),
			"lastCallMs":         edgeField(graphql.Float, func(e *graph.Edge) any { return float64(e.LastCallMs) }),
			"fileIds":            edgeField(graphql.NewList(graphql.String), func(e *graph.Edge) any { return e.Files() }),
		},
	})

	pathType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Path",
		Fields: graphql.Fields{
			"found":         &graphql.Field{Type: graphql.Boolean},
			"nodeIds":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"edgeIds":       &graphql.Field{Type: graphql.NewList(graphql.String)},
			"hops":          &graphql.Field{Type: graphql.Int},
			"failureReason": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := viewFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					id, _ := p.Args["id"].(string)
					node, err := view.Node(id)
					if err != nil {
						return nil, nil
					}
					return node, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := viewFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]*graph.Node, 0, view.NodeCount())
					for _, id := range view.NodeIDs() {
						out = append(out, view.Nodes[id])
					}
					return out, nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, err := viewFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]*graph.Edge, 0, view.EdgeCount())
					for _, id := range view.EdgeIDs() {
						out = append(out, view.Edges[id])
					}
					return out, nil
				},
			},
			"hubs": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					return sess.Hubs()
				},
			},
			"path": &graphql.Field{
				Type: pathType,
				Args: graphql.FieldConfigArgument{
					"from": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
					"to": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.String),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := sessionFromContext(p.Context)
					if err != nil {
						return nil, err
					}
					from, _ := p.Args["from"].(string)
					to, _ := p.Args["to"].(string)
					res, err := sess.FindPath(from, to)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"found":         res.Found,
						"nodeIds":       res.NodeIDs,
						"edgeIds":       res.EdgeIDs,
						"hops":          res.Hops(),
						"failureReason": res.FailureReason,
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func scalarField(t graphql.Output, get func(*graph.Node) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if node, ok := p.Source.(*graph.Node); ok {
				return get(node), nil
			}
			return nil, nil
		},
	}
}

func edgeField(t graphql.Output, get func(*graph.Edge) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			if edge, ok := p.Source.(*graph.Edge); ok {
				return get(edge), nil
			}
			return nil, nil
		},
	}
}

// ServeHTTP handles HTTP requests for GraphQL queries
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.Header.Get(SessionHeader)
	sess, ok := h.sessions.Get(sessionID)
	if !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx := context.WithValue(r.Context(), sessionContextKey, sess)
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	response := GraphQLResponse{Data: result.Data}
	if result.HasErrors() {
		response.Errors = make([]GraphQLError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = GraphQLError{Message: err.Message}
		}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
