package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/toyz/relay/internal/utils"
)

const clientSource = `package api

import (
	"context"

	"github.com/toyz/relay/pkg/relay"
)

type User struct {
	ID   int    ` + "`json:\"id\"`" + `
	Name string ` + "`json:\"name\"`" + `
}

//relay::client
type UserService interface {
	//relay::get "/api/users/{id}"
	GetUser(ctx context.Context, id int) (*relay.Response[User], error)

	//relay::post /api/users
	//relay::expect http.StatusCreated
	//relay::body user
	CreateUser(ctx context.Context, user User) (User, error)
}
`

const brokenSource = `package broken

//relay::client
type Broken interface {
	//relay::post
	//relay::body a
	//relay::body b
	Post(a string, b string) error

	//relay::get "/api/{missing}"
	Get(id int) error
}
`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func quietDiagnostics() *utils.DiagnosticSystem {
	return utils.NewDiagnosticSystemWithWriters(utils.DiagnosticSilent, os.Stdout, os.Stderr)
}
