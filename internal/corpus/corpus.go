// Package corpus holds the code samples the background sprites display.
package corpus

import "snippets/internal/rng"

// Snippets is read-only. Each entry is one sprite's worth of text.
var Snippets = []string{
	// Hello world.
	`package main

import "fmt"

func main() {
	fmt.Println("Hello, Gopher!")
}`,

	// Struct with a method.
	`type Greeting struct {
	Name string
}

func (g Greeting) String() string {
	return "Hello, " + g.Name + "!"
}`,

	// Counter guarded by a mutex.
	`type Counter struct {
	mu sync.Mutex
	n  int
}

func (c *Counter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}`,

	// HTTP handler.
	`func hello(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintln(w, "Button clicked!")
}

http.HandleFunc("/click", hello)`,

	// Ticker with cleanup.
	`ticker := time.NewTicker(time.Second)
defer ticker.Stop()

for t := range ticker.C {
	fmt.Println("tick", t.Second())
}`,

	// Generic helper.
	`func Toggle[T ~bool](v T) T {
	return !v
}

on := Toggle(false)`,

	// Fan-out with a WaitGroup.
	`var wg sync.WaitGroup
for _, url := range urls {
	wg.Add(1)
	go func(u string) {
		defer wg.Done()
		fetch(u)
	}(url)
}
wg.Wait()`,

	// Interface composition.
	`type ReadCloser interface {
	io.Reader
	io.Closer
}

func drain(rc ReadCloser) error {
	defer rc.Close()
	_, err := io.Copy(io.Discard, rc)
	return err
}`,

	// Fetching JSON.
	`resp, err := http.Get("https://api.example.com/data")
if err != nil {
	return err
}
defer resp.Body.Close()

var data struct{ Message string }
err = json.NewDecoder(resp.Body).Decode(&data)`,

	// Select with timeout.
	`select {
case v := <-results:
	fmt.Println("got", v)
case <-time.After(3 * time.Second):
	fmt.Println("timed out")
}`,

	// Context propagation.
	`ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
defer cancel()

req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)
resp, err := client.Do(req)`,

	// Memoised computation.
	`var total = sync.OnceValue(func() int {
	sum := 0
	for i := 0; i < 1e7; i++ {
		sum += i
	}
	return sum
})`,

	// Error wrapping.
	`if err := load(path); err != nil {
	return fmt.Errorf("load %s: %w", path, err)
}

if errors.Is(err, fs.ErrNotExist) {
	return nil
}`,

	// Table-driven test.
	`tests := []struct {
	in, want string
}{
	{"go", "GO"},
	{"gopher", "GOPHER"},
}
for _, tt := range tests {
	if got := strings.ToUpper(tt.in); got != tt.want {
		t.Errorf("got %q, want %q", got, tt.want)
	}
}`,

	// Embedding static files.
	`//go:embed static
var static embed.FS

http.Handle("/", http.FileServer(http.FS(static)))`,
}

// Pick returns a uniformly random entry of list. An empty list yields "".
func Pick(list []string, r *rng.Rand) string {
	if len(list) == 0 {
		return ""
	}
	return list[r.Intn(len(list))]
}
