// Package testserver wires the full stack against a temporary database for
// end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/marknote/marknote/internal/domain/activity"
	"github.com/marknote/marknote/internal/domain/workspace"
	"github.com/marknote/marknote/internal/mcp"
	"github.com/marknote/marknote/internal/persistence"
	"github.com/marknote/marknote/internal/sqlite"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	DB        *sqlite.DB
	Workspace *workspace.Service
	Activity  *activity.Service
	MCP       *sdkmcp.Server
	dbPath    string
}

// New starts a hydrated workspace over a fresh database file.
func New(t *testing.T) *TestServer {
	t.Helper()
	return Open(t, filepath.Join(t.TempDir(), "marknote.db"))
}

// Open starts a hydrated workspace over the database at path, so a test can
// restart the stack against the same data.
func Open(t *testing.T, path string) *TestServer {
	t.Helper()

	db, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), nil)
	workspaceSvc := workspace.NewService(workspace.Options{
		Persistence: persistence.NewAdapter(sqlite.NewSlotRepository(db), nil),
		Journal:     activitySvc,
	}, nil)
	require.NoError(t, workspaceSvc.Hydrate(context.Background()))

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Workspace: workspaceSvc,
			Activity:  activitySvc,
		},
		TransportMode: "stdio",
	})

	ts := &TestServer{
		DB:        db,
		Workspace: workspaceSvc,
		Activity:  activitySvc,
		MCP:       server,
		dbPath:    path,
	}

	t.Cleanup(ts.Stop)
	return ts
}

// Stop flushes pending edits and closes the database. It is safe to call
// more than once.
func (ts *TestServer) Stop() {
	if ts.DB == nil {
		return
	}
	ts.Workspace.Close()
	_ = ts.DB.Close()
	ts.DB = nil
}

// Path returns the database file backing the server.
func (ts *TestServer) Path() string {
	return ts.dbPath
}

// Connect opens an in-memory client session to the server.
func (ts *TestServer) Connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := ts.MCP.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

// ServeHTTP exposes the server over streamable HTTP and returns a connected
// client session.
func (ts *TestServer) ServeHTTP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return ts.MCP }, nil)
	httpServer := httptest.NewServer(handler)
	t.Cleanup(httpServer.Close)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}
