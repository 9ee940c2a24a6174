package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/feereceipt/internal/auth"
	"github.com/mmynk/feereceipt/internal/metrics"
	"github.com/mmynk/feereceipt/internal/middleware"
	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/receipt"
	"github.com/mmynk/feereceipt/internal/render"
	"github.com/mmynk/feereceipt/internal/storage/files"
	"github.com/mmynk/feereceipt/internal/storage/sqlite"
)

type testEnv struct {
	server   *httptest.Server
	auth     *AuthServiceClient
	receipts *ReceiptServiceClient
	pdfs     *files.FileStore
}

// setupTestServer wires the services the way the server does, on a temp
// database and PDF directory.
func setupTestServer(t *testing.T, opts ...ReceiptOption) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	pdfs, err := files.New(filepath.Join(dir, "pdfs"))
	if err != nil {
		t.Fatalf("failed to create file store: %v", err)
	}

	fontMetrics, err := render.DefaultMetrics()
	if err != nil {
		t.Fatalf("failed to load font metrics: %v", err)
	}
	composer := receipt.NewComposer(fontMetrics, render.DefaultTheme(), receipt.DefaultSchool())

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store, auth.WithCost(bcrypt.MinCost))
	m := metrics.New(prometheus.NewRegistry())

	mux := http.NewServeMux()
	authPath, authHandler := NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, logger))
	mux.Handle(authPath, authHandler)
	receiptPath, receiptHandler := NewReceiptServiceHandler(
		NewReceiptService(store, pdfs, composer, m, logger, opts...),
		connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.RequireAuth(jwtManager)),
	)
	mux.Handle(receiptPath, receiptHandler)
	mux.Handle(DownloadPath, middleware.RequireAuthHTTP(jwtManager, NewDownloadHandler(store, pdfs, logger)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		server:   server,
		auth:     NewAuthServiceClient(http.DefaultClient, server.URL),
		receipts: NewReceiptServiceClient(http.DefaultClient, server.URL),
		pdfs:     pdfs,
	}
}

func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&RegisterRequest{
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func exampleReceipt() *models.ReceiptRecord {
	return &models.ReceiptRecord{
		StudentName:   "Asha R",
		Number:        "12",
		Term:          "Term 1",
		ClassName:     "UKG",
		Date:          "2024-06-01",
		PaymentMethod: models.PaymentCash,
		Fees:          []models.FeeItem{{Label: "Tuition", Amount: "5000"}},
		TotalAmount:   "5000",
		Denominations: []models.DenominationCount{
			{Denomination: 2000, Count: "2"},
			{Denomination: 500, Count: "2"},
		},
	}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("error code = %v, want %v (%v)", got, want, err)
	}
}

func TestReceiptFlow_RoundTrip(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	env.register(t, "office")
	login, err := env.auth.Login(ctx, connect.NewRequest(&LoginRequest{Username: "office", Password: "password123"}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	token := login.Msg.Token
	if login.Msg.User.Username != "office" {
		t.Errorf("Login user = %+v", login.Msg.User)
	}

	gen, err := env.receipts.GenerateReceipt(ctx, withToken(&GenerateReceiptRequest{Receipt: exampleReceipt()}, token))
	if err != nil {
		t.Fatalf("GenerateReceipt failed: %v", err)
	}
	if !strings.HasPrefix(gen.Msg.Filename, "Asha_R_") || !strings.HasSuffix(gen.Msg.Filename, ".pdf") {
		t.Errorf("Filename = %q", gen.Msg.Filename)
	}
	if gen.Msg.DownloadURL != DownloadPath+gen.Msg.Filename {
		t.Errorf("DownloadURL = %q", gen.Msg.DownloadURL)
	}
	if gen.Msg.AmountInWords != "five thousand only" {
		t.Errorf("AmountInWords = %q, want filled in", gen.Msg.AmountInWords)
	}

	other := exampleReceipt()
	other.StudentName = "Ravi Kumar"
	if _, err := env.receipts.GenerateReceipt(ctx, withToken(&GenerateReceiptRequest{Receipt: other}, token)); err != nil {
		t.Fatalf("GenerateReceipt (second) failed: %v", err)
	}

	list, err := env.receipts.ListReceipts(ctx, withToken(&ListReceiptsRequest{StudentName: "ASHA"}, token))
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(list.Msg.Receipts) != 1 {
		t.Fatalf("ListReceipts returned %d receipts, want 1", len(list.Msg.Receipts))
	}
	got := list.Msg.Receipts[0]
	if got.ID != gen.Msg.ID || got.StudentName != "Asha R" || got.TotalAmount != "5000" || got.Date != "2024-06-01" {
		t.Errorf("listed receipt = %+v", got)
	}

	all, err := env.receipts.ListReceipts(ctx, withToken(&ListReceiptsRequest{}, token))
	if err != nil {
		t.Fatalf("ListReceipts (all) failed: %v", err)
	}
	if len(all.Msg.Receipts) != 2 {
		t.Errorf("ListReceipts (all) returned %d receipts, want 2", len(all.Msg.Receipts))
	}

	resp, err := http.Get(env.server.URL + gen.Msg.DownloadURL + "?token=" + token)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), gen.Msg.Filename) {
		t.Errorf("Content-Disposition = %q", resp.Header.Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Errorf("downloaded body is not a PDF")
	}
	if !bytes.Contains(body, []byte("(Asha R)")) {
		t.Errorf("downloaded PDF does not contain the student name")
	}
}

func TestDownload_NonLatinStudentName(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	token := env.register(t, "office")

	rec := exampleReceipt()
	rec.StudentName = "Аша (x) 日本"
	gen, err := env.receipts.GenerateReceipt(ctx, withToken(&GenerateReceiptRequest{Receipt: rec}, token))
	if err != nil {
		t.Fatalf("GenerateReceipt failed: %v", err)
	}
	if !strings.HasPrefix(gen.Msg.Filename, "Аша_(x)_日本_") {
		t.Errorf("Filename = %q", gen.Msg.Filename)
	}
	if strings.ContainsAny(gen.Msg.DownloadURL, " ()日") {
		t.Errorf("DownloadURL = %q, want escaped", gen.Msg.DownloadURL)
	}

	resp, err := http.Get(env.server.URL + gen.Msg.DownloadURL + "?token=" + token)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download status = %d", resp.StatusCode)
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("bad Content-Disposition %q: %v", resp.Header.Get("Content-Disposition"), err)
	}
	if params["filename"] != gen.Msg.Filename {
		t.Errorf("Content-Disposition filename = %q, want %q", params["filename"], gen.Msg.Filename)
	}
}

func TestAuthService_Errors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	env.register(t, "office")

	_, err := env.auth.Register(ctx, connect.NewRequest(&RegisterRequest{Username: "office", Password: "password123"}))
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = env.auth.Register(ctx, connect.NewRequest(&RegisterRequest{Username: "clerk", Password: "short"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.auth.Login(ctx, connect.NewRequest(&LoginRequest{Username: "office", Password: "wrong-password"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.auth.Login(ctx, connect.NewRequest(&LoginRequest{Username: "nobody", Password: "password123"}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGenerateReceipt_RequiresAuth(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	_, err := env.receipts.GenerateReceipt(ctx, connect.NewRequest(&GenerateReceiptRequest{Receipt: exampleReceipt()}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = env.receipts.ListReceipts(ctx, withToken(&ListReceiptsRequest{}, "not-a-token"))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestGenerateReceipt_Validation(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "office")

	tests := []struct {
		name   string
		modify func(r *models.ReceiptRecord)
	}{
		{name: "missing receipt", modify: nil},
		{name: "fee total mismatch", modify: func(r *models.ReceiptRecord) { r.TotalAmount = "6000" }},
		{name: "denominations short", modify: func(r *models.ReceiptRecord) { r.Denominations = r.Denominations[:1] }},
		{name: "unknown denomination", modify: func(r *models.ReceiptRecord) { r.Denominations[0].Denomination = 1000 }},
		{name: "bad amount", modify: func(r *models.ReceiptRecord) { r.Fees[0].Amount = "5,000" }},
		{name: "bad payment method", modify: func(r *models.ReceiptRecord) { r.PaymentMethod = "UPI" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &GenerateReceiptRequest{}
			if tt.modify != nil {
				msg.Receipt = exampleReceipt()
				tt.modify(msg.Receipt)
			}
			_, err := env.receipts.GenerateReceipt(context.Background(), withToken(msg, token))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}

	list, err := env.receipts.ListReceipts(context.Background(), withToken(&ListReceiptsRequest{}, token))
	if err != nil {
		t.Fatalf("ListReceipts failed: %v", err)
	}
	if len(list.Msg.Receipts) != 0 {
		t.Errorf("rejected receipts were indexed: %d", len(list.Msg.Receipts))
	}
}

func TestGenerateReceipt_OmittedFees(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "office")

	rec := exampleReceipt()
	rec.Fees = nil
	for i := 0; i < 7; i++ {
		rec.Fees = append(rec.Fees, models.FeeItem{Label: "Fee", Amount: "500"})
	}
	rec.TotalAmount = "3500"
	rec.Denominations = []models.DenominationCount{{Denomination: 500, Count: "7"}}

	resp, err := env.receipts.GenerateReceipt(context.Background(), withToken(&GenerateReceiptRequest{Receipt: rec}, token))
	if err != nil {
		t.Fatalf("GenerateReceipt failed: %v", err)
	}
	if resp.Msg.OmittedFees != 2 {
		t.Errorf("OmittedFees = %d, want 2", resp.Msg.OmittedFees)
	}
	if resp.Msg.AmountInWords != "three thousand five hundred only" {
		t.Errorf("AmountInWords = %q", resp.Msg.AmountInWords)
	}
}

func TestGenerateReceipt_SameMillisecond(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	env := setupTestServer(t, WithClock(func() time.Time { return fixed }))
	token := env.register(t, "office")

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		resp, err := env.receipts.GenerateReceipt(context.Background(), withToken(&GenerateReceiptRequest{Receipt: exampleReceipt()}, token))
		if err != nil {
			t.Fatalf("GenerateReceipt %d failed: %v", i, err)
		}
		if seen[resp.Msg.Filename] {
			t.Fatalf("filename %q reused", resp.Msg.Filename)
		}
		seen[resp.Msg.Filename] = true
	}
	if !seen["Asha_R_1717232400000.pdf"] || !seen["Asha_R_1717232400000_1.pdf"] {
		t.Errorf("filenames = %v", seen)
	}
}

func TestDownload_Errors(t *testing.T) {
	env := setupTestServer(t)
	token := env.register(t, "office")

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "no token", path: DownloadPath + "a.pdf", want: http.StatusUnauthorized},
		{name: "bad token", path: DownloadPath + "a.pdf?token=bogus", want: http.StatusUnauthorized},
		{name: "missing file", path: DownloadPath + "a.pdf?token=" + token, want: http.StatusNotFound},
		{name: "not a pdf", path: DownloadPath + "notes.txt?token=" + token, want: http.StatusBadRequest},
		{name: "header token", path: DownloadPath + "a.pdf", header: "Bearer " + token, want: http.StatusNotFound},
		{name: "file not in index", path: DownloadPath + "stray.pdf?token=" + token, want: http.StatusNotFound},
	}
	if err := env.pdfs.Save("stray.pdf", []byte("%PDF-1.3\n%%EOF\n")); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, env.server.URL+tt.path, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
