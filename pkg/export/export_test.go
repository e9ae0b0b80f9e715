package export

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/storefront"
	"github.com/vango-dev/storefront/app/routes"
	"github.com/vango-dev/storefront/app/views"
	"github.com/vango-dev/storefront/internal/errors"
	"github.com/vango-dev/storefront/pkg/router"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mountedApp(t *testing.T) (*storefront.App, *router.Table) {
	t.Helper()
	r, err := routes.NewRouter(router.WebHistory("/"))
	if err != nil {
		t.Fatal(err)
	}
	app, err := storefront.New(storefront.Config{Title: "Shop", Logger: quietLogger()}, views.Frame).
		Use(r).
		Mount("#app")
	if err != nil {
		t.Fatal(err)
	}
	return app, r.Table()
}

type memorySink struct {
	mu    sync.Mutex
	files map[string]string
}

func (s *memorySink) Put(ctx context.Context, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string]string)
	}
	s.files[key] = string(body)
	return nil
}

type fakeS3 struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestKeyForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
		err  bool
	}{
		{"/", "index.html", false},
		{"/product/42", "product/42/index.html", false},
		{"/product/42/", "product/42/index.html", false},
		{"/product/..", "", true},
		{"/a//b", "", true},
		{"/product/a%20b", "product/a b/index.html", false},
		{"/product/100%25", "product/100%/index.html", false},
		{"/product/%2e%2e", "", true},
		{"/product/a%2Fb", "", true},
		{"/product/%zz", "", true},
	}
	for _, tt := range tests {
		got, err := KeyForPath(tt.path)
		if (err != nil) != tt.err {
			t.Errorf("KeyForPath(%q) err = %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("KeyForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestPaths(t *testing.T) {
	app, table := mountedApp(t)

	exp := New(app, table, WithParams(routes.ProductDetails,
		map[string]string{"id": "1"},
		map[string]string{"id": "42"},
		map[string]string{"id": "1"},
	))
	paths, skipped, err := exp.Paths()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"/", "/product/1", "/product/42"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}

	_, skipped, _ = New(app, table).Paths()
	if len(skipped) != 1 || skipped[0] != "/product/:id" {
		t.Errorf("skipped without params = %v", skipped)
	}

	_, _, err = New(app, table, WithParams(routes.ProductDetails, map[string]string{})).Paths()
	if !errors.HasCode(err, "E301") {
		t.Errorf("missing param err = %v, want E301", err)
	}
}

func TestRunMemory(t *testing.T) {
	app, table := mountedApp(t)
	sink := &memorySink{}

	report, err := New(app, table,
		WithLogger(quietLogger()),
		WithParams(routes.ProductDetails, map[string]string{"id": "42"}),
	).Run(context.Background(), sink)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantKeys := []string{"index.html", "product/42/index.html", NotFoundKey}
	if strings.Join(report.Pages, ",") != strings.Join(wantKeys, ",") {
		t.Errorf("pages = %v, want %v", report.Pages, wantKeys)
	}
	if !strings.Contains(sink.files["index.html"], `class="home"`) {
		t.Error("index.html missing home view")
	}
	if !strings.Contains(sink.files["product/42/index.html"], `data-product-id="42"`) {
		t.Error("product page missing product view")
	}
	if strings.Contains(sink.files[NotFoundKey], `class="home"`) {
		t.Error("404.html rendered the home view")
	}
}

func TestRunDirSink(t *testing.T) {
	app, table := mountedApp(t)
	dir := t.TempDir()

	_, err := New(app, table,
		WithLogger(quietLogger()),
		WithoutNotFound(),
		WithParams(routes.ProductDetails, map[string]string{"id": "abc"}, map[string]string{"id": "a b"}),
	).Run(context.Background(), NewDirSink(dir))
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "product", "abc", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "<!DOCTYPE html>") {
		t.Error("exported page is not a document")
	}
	spaced, err := os.ReadFile(filepath.Join(dir, "product", "a b", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(spaced), `data-product-id="a b"`) {
		t.Error("decoded key holds the wrong page")
	}
	if _, err := os.Stat(filepath.Join(dir, NotFoundKey)); !os.IsNotExist(err) {
		t.Error("404.html written despite WithoutNotFound")
	}
}

func TestDirSinkRejectsEscapes(t *testing.T) {
	sink := NewDirSink(t.TempDir())
	err := sink.Put(context.Background(), "../outside.html", []byte("x"), HTMLContentType)
	if !errors.HasCode(err, "E301") {
		t.Errorf("err = %v, want E301", err)
	}

	err = NewDirSink("").Put(context.Background(), "index.html", nil, HTMLContentType)
	if !errors.HasCode(err, "E302") {
		t.Errorf("empty dir err = %v, want E302", err)
	}
}

func TestS3Sink(t *testing.T) {
	app, table := mountedApp(t)
	client := &fakeS3{}

	sink, err := NewS3Sink(client, "site", "/v1/")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(app, table, WithLogger(quietLogger())).Run(context.Background(), sink); err != nil {
		t.Fatal(err)
	}

	if len(client.inputs) != 2 {
		t.Fatalf("uploads = %d, want 2 (index and 404)", len(client.inputs))
	}
	in := client.inputs[0]
	if aws.ToString(in.Bucket) != "site" {
		t.Errorf("bucket = %q", aws.ToString(in.Bucket))
	}
	if aws.ToString(in.Key) != "v1/index.html" {
		t.Errorf("key = %q", aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != HTMLContentType {
		t.Errorf("content type = %q", aws.ToString(in.ContentType))
	}
	if !strings.Contains(client.bodies[0], `class="home"`) {
		t.Error("uploaded body missing home view")
	}
	if aws.ToString(client.inputs[1].Key) != "v1/404.html" {
		t.Errorf("second key = %q", aws.ToString(client.inputs[1].Key))
	}
}

func TestS3SinkErrors(t *testing.T) {
	if _, err := NewS3Sink(nil, "site", ""); !errors.HasCode(err, "E302") {
		t.Errorf("nil client err = %v, want E302", err)
	}
	if _, err := NewS3Sink(&fakeS3{}, "", ""); !errors.HasCode(err, "E302") {
		t.Errorf("empty bucket err = %v, want E302", err)
	}

	app, table := mountedApp(t)
	sink, _ := NewS3Sink(&fakeS3{err: io.ErrClosedPipe}, "site", "")
	_, err := New(app, table, WithLogger(quietLogger())).Run(context.Background(), sink)
	if !errors.HasCode(err, "E301") {
		t.Errorf("upload failure err = %v, want E301", err)
	}
}

func TestRunNilSink(t *testing.T) {
	app, table := mountedApp(t)
	if _, err := New(app, table).Run(context.Background(), nil); !errors.HasCode(err, "E302") {
		t.Errorf("err = %v, want E302", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	if _, err := EnvCredentials().Retrieve(context.Background()); !errors.HasCode(err, "E302") {
		t.Errorf("err = %v, want E302", err)
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "AKID")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	creds, err := EnvCredentials().Retrieve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if creds.AccessKeyID != "AKID" {
		t.Errorf("AccessKeyID = %q", creds.AccessKeyID)
	}

	client := NewS3Client(S3Options{Region: "eu-west-1", Endpoint: "http://localhost:9000"})
	if client == nil {
		t.Fatal("nil client")
	}
	if client.Options().Region != "eu-west-1" || !client.Options().UsePathStyle {
		t.Errorf("options = %+v", client.Options())
	}
}
