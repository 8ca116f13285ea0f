package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/bilalbayram/postmarkcli/internal/auth"
)

type fakeAuthService struct {
	loginInput  auth.LoginInput
	loginErr    error
	logoutName  string
	statusName  string
	statuses    []auth.ProfileStatus
	loginCalls  int
	logoutCalls int
}

func (f *fakeAuthService) Login(input auth.LoginInput) error {
	f.loginCalls++
	f.loginInput = input
	return f.loginErr
}

func (f *fakeAuthService) Logout(profile string) error {
	f.logoutCalls++
	f.logoutName = profile
	return nil
}

func (f *fakeAuthService) Status(profile string) ([]auth.ProfileStatus, error) {
	f.statusName = profile
	return f.statuses, nil
}

func useFakeAuthService(t *testing.T, fake *fakeAuthService) {
	t.Helper()
	original := newAuthCLIService
	t.Cleanup(func() {
		newAuthCLIService = original
	})
	newAuthCLIService = func() (authCLIService, error) {
		return fake, nil
	}
}

func TestAuthLoginPassesGlobalTokens(t *testing.T) {
	fake := &fakeAuthService{}
	useFakeAuthService(t, fake)

	runtime := textRuntime("prod")
	serverToken := "server-token"
	baseURL := "https://api.example.test"
	runtime.ServerToken = &serverToken
	runtime.BaseURL = &baseURL

	stdout, _, err := executeCommand(t, NewAuthCommand(runtime), "login", "--sender-address", "sender@example.com")
	if err != nil {
		t.Fatalf("execute auth login: %v", err)
	}
	if fake.loginCalls != 1 {
		t.Fatalf("expected one login call, got %d", fake.loginCalls)
	}
	want := auth.LoginInput{
		Profile:       "prod",
		ServerToken:   "server-token",
		SenderAddress: "sender@example.com",
		BaseURL:       "https://api.example.test",
	}
	if fake.loginInput != want {
		t.Fatalf("unexpected login input %+v", fake.loginInput)
	}
	if stdout != "Success: Saved profile prod.\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestAuthLoginRequiresProfile(t *testing.T) {
	fake := &fakeAuthService{}
	useFakeAuthService(t, fake)

	_, _, err := executeCommand(t, NewAuthCommand(testRuntime("")), "login")
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected input error, got %v", err)
	}
	if fake.loginCalls != 0 {
		t.Fatalf("expected no login call, got %d", fake.loginCalls)
	}
}

func TestAuthLoginReportsServiceError(t *testing.T) {
	fake := &fakeAuthService{loginErr: errors.New("at least one of server token or account token is required")}
	useFakeAuthService(t, fake)

	_, stderr, err := executeCommand(t, NewAuthCommand(testRuntime("prod")), "login")
	if err == nil {
		t.Fatal("expected error")
	}
	envelope := decodeEnvelope(t, []byte(stderr))
	errorBody, _ := envelope["error"].(map[string]any)
	if errorBody["type"] != "input_error" || !strings.Contains(errorBody["message"].(string), "at least one") {
		t.Fatalf("unexpected error body %#v", errorBody)
	}
}

func TestAuthStatusText(t *testing.T) {
	fake := &fakeAuthService{statuses: []auth.ProfileStatus{
		{Profile: "prod", Default: true, ServerToken: true, AccountToken: false, SenderAddress: "sender@example.com"},
		{Profile: "staging", ServerToken: true, AccountToken: true},
	}}
	useFakeAuthService(t, fake)

	stdout, _, err := executeCommand(t, NewAuthCommand(textRuntime("")), "status")
	if err != nil {
		t.Fatalf("execute auth status: %v", err)
	}
	want := "Success: prod (default): server token set, account token missing, sender sender@example.com\n" +
		"staging: server token set, account token set\n"
	if stdout != want {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestAuthStatusJSON(t *testing.T) {
	fake := &fakeAuthService{statuses: []auth.ProfileStatus{{Profile: "prod", ServerToken: true}}}
	useFakeAuthService(t, fake)

	stdout, _, err := executeCommand(t, NewAuthCommand(testRuntime("prod")), "status")
	if err != nil {
		t.Fatalf("execute auth status: %v", err)
	}
	if fake.statusName != "prod" {
		t.Fatalf("unexpected status profile %q", fake.statusName)
	}
	envelope := decodeEnvelope(t, []byte(stdout))
	assertEnvelopeBasics(t, envelope, "pm auth status")
	data, _ := envelope["data"].([]any)
	if len(data) != 1 {
		t.Fatalf("unexpected data %#v", envelope["data"])
	}
	first, _ := data[0].(map[string]any)
	if first["server_token"] != true || first["account_token"] != false {
		t.Fatalf("unexpected status %#v", first)
	}
}

func TestAuthLogout(t *testing.T) {
	fake := &fakeAuthService{}
	useFakeAuthService(t, fake)

	stdout, _, err := executeCommand(t, NewAuthCommand(textRuntime("prod")), "logout")
	if err != nil {
		t.Fatalf("execute auth logout: %v", err)
	}
	if fake.logoutName != "prod" {
		t.Fatalf("unexpected logout profile %q", fake.logoutName)
	}
	if stdout != "Success: Removed profile prod.\n" {
		t.Fatalf("unexpected stdout %q", stdout)
	}
}

func TestAuthLoginStoresTokensInKeychain(t *testing.T) {
	useStubDependencies(t, &stubHTTPClient{t: t})
	original := newAuthCLIService
	t.Cleanup(func() { newAuthCLIService = original })
	newAuthCLIService = func() (authCLIService, error) {
		return newAuthService()
	}

	runtime := testRuntime("staging")
	accountToken := "fresh-account-token"
	runtime.AccountToken = &accountToken
	if _, _, err := executeCommand(t, NewAuthCommand(runtime), "login"); err != nil {
		t.Fatalf("execute auth login: %v", err)
	}

	svc, err := newAuthService()
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	creds, err := svc.Resolve(auth.ResolveInput{Profile: "staging"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	credential, err := creds.Account()
	if err != nil {
		t.Fatalf("account credential: %v", err)
	}
	if credential.Token != accountToken {
		t.Fatalf("unexpected token %q", credential.Token)
	}
}
