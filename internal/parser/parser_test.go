package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/relay/internal/errors"
	"github.com/toyz/relay/internal/models"
)

const userService = `package api

import (
	"context"
	"net/http"

	"github.com/toyz/relay/pkg/relay"
)

type User struct {
	ID   int    ` + "`json:\"id\"`" + `
	Name string ` + "`json:\"name\"`" + `
}

// UserService talks to the user API.
//
//relay::client
type UserService interface {
	//relay::get "/api/user/{id}?age={age}"
	//relay::expect 200 "application/json"
	//relay::header token "X-Token"
	GetUser(ctx context.Context, id int, age int, token string) (*relay.Response[User], error)

	// CreateUser posts a new user.
	//relay::post /api/user relay.ApplicationJSON
	//relay::expect http.StatusCreated
	//relay::body user
	CreateUser(ctx context.Context, user *User) (User, error)

	//relay::delete "/api/user/{uid}"
	//relay::value userID uid
	//relay::expect 204 relay.TextPlain
	DeleteUser(ctx context.Context, userID int64) error

	//relay::get
	Ping() error
}

// NotAClient has no marker and is ignored.
type NotAClient interface {
	Get() error
}
`

func TestParseSourceUserService(t *testing.T) {
	p := NewParser()
	metadata, err := p.ParseSource("api.go", userService)
	require.NoError(t, err)

	assert.Equal(t, "api", metadata.PackageName)
	require.Len(t, metadata.Clients, 1)

	client := metadata.Clients[0]
	assert.Equal(t, "UserService", client.InterfaceName)
	assert.Equal(t, "UserServiceClient", client.StructName)
	require.Len(t, client.Endpoints, 4)
	assert.Equal(t, 4, metadata.EndpointCount())

	assert.Contains(t, metadata.Imports, models.ImportSpec{Path: "net/http"})
	assert.Contains(t, metadata.Imports, models.ImportSpec{Path: "github.com/toyz/relay/pkg/relay"})

	get := client.Endpoints[0]
	assert.Equal(t, "GetUser", get.Name)
	assert.Equal(t, "GET", get.Request.Verb)
	assert.Equal(t, "/api/user/{id}?age={age}", get.Request.PathTemplate)
	assert.Nil(t, get.Request.ContentType)
	assert.Equal(t, 200, get.Expect.Status.Code)
	assert.Equal(t, models.LiteralExpr("application/json"), get.Expect.ContentType)
	assert.True(t, get.Signature.HasContext)
	assert.Equal(t, "ctx", get.Signature.ContextName)
	assert.Equal(t, models.ReturnResponseError, get.Signature.Shape)
	assert.Equal(t, "User", get.Signature.PayloadType)
	assert.Equal(t, map[string]string{"id": "id", "age": "age"}, get.Params.ValueNames())
	require.Len(t, get.Params.Headers, 1)
	assert.Equal(t, "token", get.Params.Headers[0].Param.Name)
	assert.Equal(t, models.Expr{Literal: "X-Token"}, get.Params.Headers[0].Name)
	assert.Nil(t, get.Params.Body)

	create := client.Endpoints[1]
	assert.Equal(t, "POST", create.Request.Verb)
	assert.Equal(t, models.RefExpr("relay.ApplicationJSON"), create.Request.ContentType)
	assert.Equal(t, "http.StatusCreated", create.Expect.Status.GoExpr())
	assert.Equal(t, models.ReturnValueError, create.Signature.Shape)
	assert.Equal(t, "User", create.Signature.PayloadType)
	require.NotNil(t, create.Params.Body)
	assert.Equal(t, "user", create.Params.Body.Name)
	assert.Equal(t, "*User", create.Params.Body.Type)
	assert.Empty(t, create.Params.Values)

	del := client.Endpoints[2]
	assert.Equal(t, "DELETE", del.Request.Verb)
	assert.Equal(t, 204, del.Expect.Status.Code)
	assert.Equal(t, models.RefExpr("relay.TextPlain"), del.Expect.ContentType)
	assert.Equal(t, models.ReturnError, del.Signature.Shape)
	assert.Equal(t, EmptyPayload, del.Signature.PayloadType)
	assert.Equal(t, map[string]string{"uid": "userID"}, del.Params.ValueNames())

	ping := client.Endpoints[3]
	assert.Equal(t, models.DefaultPath, ping.Request.PathTemplate)
	assert.Equal(t, models.DefaultExpectSpec(), ping.Expect)
	assert.False(t, ping.Signature.HasContext)
}

func TestParseSourceDefaults(t *testing.T) {
	source := `package api

//relay::client
type Health interface {
	//relay::get
	Check() (string, error)
}
`
	metadata, err := NewParser().ParseSource("health.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Clients, 1)

	endpoint := metadata.Clients[0].Endpoints[0]
	assert.Equal(t, "/", endpoint.Request.PathTemplate)
	assert.Nil(t, endpoint.Request.ContentType)
	assert.Equal(t, 200, endpoint.Expect.Status.Code)
	assert.Nil(t, endpoint.Expect.ContentType)
}

func TestParseSourceGroupedTypeDecl(t *testing.T) {
	source := `package api

type (
	//relay::client
	A interface {
		//relay::get "/a"
		Get() error
	}

	B interface {
		Get() error
	}
)
`
	metadata, err := NewParser().ParseSource("grouped.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Clients, 1)
	assert.Equal(t, "A", metadata.Clients[0].InterfaceName)
}

func TestParseSourceDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		method string
		code   errors.ErrorCode
		line   int
	}{
		{
			name:   "missing request annotation",
			method: "//relay::expect 200\n\tGet() error",
			code:   errors.MissingRequestAttribute,
			line:   6,
		},
		{
			name:   "duplicate request annotation",
			method: "//relay::get \"/a\"\n\t//relay::post \"/b\"\n\tGet() error",
			code:   errors.DuplicateAttribute,
			line:   6,
		},
		{
			name:   "duplicate expect annotation",
			method: "//relay::get\n\t//relay::expect 200\n\t//relay::expect 201\n\tGet() error",
			code:   errors.DuplicateAttribute,
			line:   7,
		},
		{
			name:   "too many request arguments",
			method: "//relay::get \"/a\" \"text/plain\" \"x\"\n\tGet() error",
			code:   errors.TooManyArguments,
			line:   5,
		},
		{
			name:   "too many expect arguments",
			method: "//relay::get\n\t//relay::expect 200 \"text/plain\" 3\n\tGet() error",
			code:   errors.TooManyArguments,
			line:   6,
		},
		{
			name:   "non literal path",
			method: "//relay::get 42\n\tGet() error",
			code:   errors.InvalidArgumentType,
			line:   5,
		},
		{
			name:   "non integer status",
			method: "//relay::get\n\t//relay::expect \"200\"\n\tGet() error",
			code:   errors.InvalidArgumentType,
			line:   6,
		},
		{
			name:   "status out of range",
			method: "//relay::get\n\t//relay::expect 42\n\tGet() error",
			code:   errors.InvalidStatusCode,
			line:   6,
		},
		{
			name:   "unparsable content type",
			method: "//relay::post \"/a\" \"not a mime\"\n\tGet() error",
			code:   errors.InvalidContentType,
			line:   5,
		},
		{
			name:   "integer content type",
			method: "//relay::get\n\t//relay::expect 200 7\n\tGet() error",
			code:   errors.InvalidContentType,
			line:   6,
		},
		{
			name:   "header without name",
			method: "//relay::get\n\t//relay::header token\n\tGet(token string) error",
			code:   errors.InvalidHeaderName,
			line:   6,
		},
		{
			name:   "header with integer name",
			method: "//relay::get\n\t//relay::header token 5\n\tGet(token string) error",
			code:   errors.InvalidHeaderName,
			line:   6,
		},
		{
			name:   "duplicate body",
			method: "//relay::post\n\t//relay::body a\n\t//relay::body b\n\tPost(a string, b string) error",
			code:   errors.DuplicateBody,
			line:   7,
		},
		{
			name:   "ambiguous role",
			method: "//relay::post\n\t//relay::body a\n\t//relay::header a \"X-A\"\n\tPost(a string) error",
			code:   errors.AmbiguousRole,
			line:   7,
		},
		{
			name:   "unbound uri variable",
			method: "//relay::get \"/api/{missing}\"\n\tGet(id int) error",
			code:   errors.UnboundUriVariable,
			line:   5,
		},
		{
			name:   "unknown annotation",
			method: "//relay::fetch \"/a\"\n\tGet() error",
			code:   errors.UnknownAnnotation,
			line:   5,
		},
		{
			name:   "malformed annotation",
			method: "//relay::get \"/a\n\tGet() error",
			code:   errors.InvalidAnnotation,
			line:   5,
		},
		{
			name:   "unknown parameter",
			method: "//relay::get\n\t//relay::body nope\n\tGet() error",
			code:   errors.UnknownParameter,
			line:   6,
		},
		{
			name:   "duplicate value key",
			method: "//relay::get \"/{b}\"\n\t//relay::value a b\n\tGet(a string, b string) error",
			code:   errors.DuplicateValue,
			line:   7,
		},
		{
			name:   "unsupported results",
			method: "//relay::get\n\tGet() (int, string)",
			code:   errors.InvalidSignature,
			line:   6,
		},
		{
			name:   "client marker on a method",
			method: "//relay::get\n\t//relay::client\n\tGet() error",
			code:   errors.InvalidAnnotation,
			line:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := "package api\n\n//relay::client\ntype API interface {\n\t" + tt.method + "\n}\n"

			_, err := NewParser().ParseSource("api.go", source)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)

			var multi *errors.MultipleErrors
			require.ErrorAs(t, err, &multi)
			found := multi.GetByCode(tt.code)
			require.NotEmpty(t, found)
			assert.Equal(t, "api.go", found[0].Location().File)
			assert.Equal(t, tt.line, found[0].Location().Line)
		})
	}
}

func TestParseSourceCollectsAllDiagnostics(t *testing.T) {
	source := `package api

//relay::client
type API interface {
	//relay::get "/{x}"
	A() error

	//relay::post
	//relay::body a
	//relay::body b
	B(a, b string) error

	//relay::expect 200
	C() error
}
`
	_, err := NewParser().ParseSource("api.go", source)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 3, multi.Count())
	assert.True(t, multi.HasCode(errors.UnboundUriVariable))
	assert.True(t, multi.HasCode(errors.DuplicateBody))
	assert.True(t, multi.HasCode(errors.MissingRequestAttribute))
}

func TestParseSourceRejectsMisplacedAnnotations(t *testing.T) {
	source := `package api

//relay::client
type NotAnInterface struct{}

//relay::get "/x"
type Other interface{}
`
	_, err := NewParser().ParseSource("api.go", source)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.GetByCode(errors.InvalidAnnotation), 2)
}

func TestParseSourceSyntaxError(t *testing.T) {
	_, err := NewParser().ParseSource("bad.go", "package api\nfunc {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse source")
}

func TestParseDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.go"), []byte(userService), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api_test.go"), []byte("package api_test\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "autogen_client.go"),
		[]byte("// Code generated by relay. DO NOT EDIT.\n\npackage api\n\n//relay::client\ntype Ignored interface{}\n"), 0o644))

	metadata, err := NewParser().ParseDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, "api", metadata.PackageName)
	assert.Equal(t, dir, metadata.PackagePath)
	require.Len(t, metadata.Clients, 1)
	assert.Equal(t, "UserService", metadata.Clients[0].InterfaceName)
}

func TestParseDirectoryErrors(t *testing.T) {
	_, err := NewParser().ParseDirectory(t.TempDir())
	assert.ErrorContains(t, err, "no Go packages")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b\n"), 0o644))
	_, err = NewParser().ParseDirectory(dir)
	assert.ErrorContains(t, err, "multiple packages")
}
