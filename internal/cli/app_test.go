package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/dtroode/vaultkeeper/internal/credential"
	"github.com/dtroode/vaultkeeper/internal/repository/sqlstore"
	"github.com/dtroode/vaultkeeper/internal/service"
	"github.com/dtroode/vaultkeeper/internal/session"
	"github.com/dtroode/vaultkeeper/internal/testutil"
	"github.com/dtroode/vaultkeeper/internal/token"
)

var uuidRe = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

type harness struct {
	deps Deps
}

type result struct {
	code   int
	stdout string
	stderr string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()
	log := testutil.MakeNoopLogger()

	origTerminal := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerminal })

	conn, err := sqlstore.NewConnection(ctx, sqlstore.DialectSQLite, ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	hasher, err := credential.NewBcrypt(bcrypt.MinCost)
	require.NoError(t, err)

	access := service.NewAccess(conn, log)
	contextManager := session.NewManager()
	file := session.NewFile(filepath.Join(t.TempDir(), "session"))

	return &harness{deps: Deps{
		Identity:       service.NewIdentity(conn, hasher, log),
		Secrets:        service.NewSecret(conn, access, 0, log),
		Groups:         service.NewGroup(conn, access, log),
		Auth:           session.NewAuthenticator(file, token.NewJWT("secret", time.Hour), contextManager, log),
		ContextManager: contextManager,
		Migrate:        conn.Migrate,
		Logger:         log,
		Version:        "test",
	}}
}

func (h *harness) run(stdin string, args ...string) result {
	var out, errOut bytes.Buffer
	deps := h.deps
	deps.Prompter = NewPrompter(strings.NewReader(stdin), -1, &out)
	deps.Out = &out
	deps.ErrOut = &errOut

	code := NewApp(deps).Run(context.Background(), args)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func (h *harness) mustRun(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	res := h.run(stdin, args...)
	require.Equal(t, exitOK, res.code, "stderr: %s", res.stderr)
	return res.stdout
}

func (h *harness) register(t *testing.T, email, first string) {
	t.Helper()
	h.mustRun(t, "pw-"+first+"\n", "register", "-email", email, "-first", first, "-last", "Tester")
}

func (h *harness) login(t *testing.T, email, first string) {
	t.Helper()
	h.mustRun(t, "pw-"+first+"\n", "login", "-email", email)
}

func TestApp_Usage(t *testing.T) {
	h := newHarness(t)

	res := h.run("")
	assert.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "usage: vaultkeeper")
	assert.Contains(t, res.stdout, "group")

	res = h.run("", "frobnicate")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)

	res = h.run("", "show")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "usage: vaultkeeper show")

	res = h.run("", "version")
	assert.Equal(t, "vaultkeeper test\n", res.stdout)
}

func TestApp_Migrate(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun(t, "", "migrate")
	assert.Contains(t, out, "up to date")
}

func TestApp_RegisterLoginWhoami(t *testing.T) {
	h := newHarness(t)

	res := h.run("", "whoami")
	assert.Equal(t, exitAuth, res.code)
	assert.Contains(t, res.stderr, "not logged in")

	h.register(t, "ada@example.com", "Ada")

	res = h.run("pw-Ada\n", "register", "-email", "ada@example.com", "-first", "Other", "-last", "Person")
	assert.Equal(t, exitRejected, res.code)
	assert.Contains(t, res.stderr, "already registered")

	res = h.run("wrong\n", "login", "-email", "ada@example.com")
	assert.Equal(t, exitAuth, res.code)
	assert.Contains(t, res.stderr, "invalid email or password")

	res = h.run("pw-Ada\n", "login", "-email", "ghost@example.com")
	assert.Equal(t, exitAuth, res.code)
	assert.Contains(t, res.stderr, "invalid email or password")

	h.login(t, "ada@example.com", "Ada")
	out := h.mustRun(t, "", "whoami")
	assert.Contains(t, out, "Ada Tester <ada@example.com>")

	h.mustRun(t, "", "logout")
	res = h.run("", "whoami")
	assert.Equal(t, exitAuth, res.code)
}

func TestApp_SecretCommands(t *testing.T) {
	h := newHarness(t)
	h.register(t, "ada@example.com", "Ada")
	h.register(t, "bob@example.com", "Bob")

	out := h.mustRun(t, "", "generate", "-length", "20")
	assert.Len(t, strings.TrimSpace(out), 20)

	res := h.run("", "generate", "-length", "4")
	assert.Equal(t, exitRejected, res.code)

	h.login(t, "ada@example.com", "Ada")
	out = h.mustRun(t, "typed-value\n", "add", "-label", "mail")
	secretID := uuidRe.FindString(out)
	require.NotEmpty(t, secretID)

	out = h.mustRun(t, "", "show", secretID)
	assert.Contains(t, out, "typed-value")

	out = h.mustRun(t, "", "list", "-o", "yaml")
	var listed []secretOut
	require.NoError(t, yaml.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "mail", listed[0].Label)
	assert.Empty(t, listed[0].Value, "list never prints values")

	h.mustRun(t, "", "share", secretID, "-with", "bob@example.com")

	h.login(t, "bob@example.com", "Bob")
	out = h.mustRun(t, "", "show", secretID, "-o", "yaml")
	var shown secretOut
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "typed-value", shown.Value)
	assert.Equal(t, "Ada Tester", shown.Creator)

	res = h.run("", "delete", secretID)
	assert.Equal(t, exitForbidden, res.code)
	assert.Contains(t, res.stderr, "only the creator")

	h.login(t, "ada@example.com", "Ada")
	out = h.mustRun(t, "", "delete", secretID)
	assert.Contains(t, out, "secret deleted")

	res = h.run("", "show", secretID)
	assert.Equal(t, exitNotFound, res.code)

	res = h.run("", "show", "not-a-uuid")
	assert.Equal(t, exitRejected, res.code)
}

func TestApp_GroupCommands(t *testing.T) {
	h := newHarness(t)
	h.register(t, "ada@example.com", "Ada")
	h.register(t, "bob@example.com", "Bob")

	h.login(t, "ada@example.com", "Ada")
	out := h.mustRun(t, "", "group", "create", "ops")
	groupID := uuidRe.FindString(out)
	require.NotEmpty(t, groupID)

	out = h.mustRun(t, "", "group", "add", groupID, "bob@example.com")
	assert.Contains(t, out, `Bob Tester added to group "ops"`)

	res := h.run("", "group", "add", groupID, "bob@example.com")
	assert.Equal(t, exitRejected, res.code)
	assert.Contains(t, res.stderr, "already a member")

	out = h.mustRun(t, "", "group", "add-secret", groupID, "-label", "db", "-generate", "-length", "24")
	assert.Contains(t, out, "shared it with the group")
	assert.Regexp(t, `(?m)^value: \S{24}$`, out)

	out = h.mustRun(t, "", "add", "-label", "wifi", "-value", "hunter2")
	wifiID := uuidRe.FindString(out)
	h.mustRun(t, "", "group", "link", groupID, wifiID)

	out = h.mustRun(t, "", "group", "members", groupID, "-o", "yaml")
	var members []memberOut
	require.NoError(t, yaml.Unmarshal([]byte(out), &members))
	require.Len(t, members, 2)

	h.login(t, "bob@example.com", "Bob")
	out = h.mustRun(t, "", "group", "secrets", groupID)
	assert.Contains(t, out, "db")
	assert.Contains(t, out, "wifi")

	out = h.mustRun(t, "", "group", "list")
	assert.Contains(t, out, "ops")
	assert.Contains(t, out, "member")

	res = h.run("", "group", "remove", groupID, "ada@example.com")
	assert.Equal(t, exitForbidden, res.code)

	h.login(t, "ada@example.com", "Ada")
	res = h.run("", "group", "remove", groupID, "ada@example.com")
	assert.Equal(t, exitForbidden, res.code)
	assert.Contains(t, res.stderr, "cannot be removed")

	out = h.mustRun(t, "", "group", "remove", groupID, "bob@example.com")
	assert.Contains(t, out, "member removed")

	h.login(t, "bob@example.com", "Bob")
	res = h.run("", "show", wifiID)
	assert.Equal(t, exitNotFound, res.code)

	res = h.run("", "group", "bogus")
	assert.Equal(t, exitUsage, res.code)
}

func TestApp_PromptsForMissingFields(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun(t, "ada@example.com\nAda\nLovelace\npw-Ada\n", "register")
	assert.Contains(t, out, "registered Ada Lovelace <ada@example.com>")

	out = h.mustRun(t, "ada@example.com\npw-Ada\n", "login")
	assert.Contains(t, out, "logged in as Ada Lovelace")

	out = h.mustRun(t, "mail\ntyped-value\n", "add")
	secretID := uuidRe.FindString(out)
	require.NotEmpty(t, secretID)
	assert.Contains(t, out, `stored "mail"`)

	out = h.mustRun(t, "", "show", secretID)
	assert.Contains(t, out, "typed-value")

	out = h.mustRun(t, "", "add", "-label", "wifi", "-generate", "-length", "12")
	assert.Regexp(t, `(?m)^value: \S{12}$`, out)

	res := h.run("", "add", "-value", "x")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "label is required")

	res = h.run("\n", "login")
	assert.Equal(t, exitUsage, res.code)
	assert.Contains(t, res.stderr, "email is required")
}
