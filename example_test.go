package inigo_test

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/dshills/inigo"
	"github.com/dshills/inigo/notify"
	"github.com/dshills/inigo/schema"
)

type serverConfig struct {
	Host string
	Port int
}

func (c *serverConfig) Describe() *schema.Info {
	b := schema.New("server", "Network listener")
	b.String(&c.Host, "host", "localhost", "Bind address")
	b.Int(&c.Port, "port", "8080", "Bind port")
	return b.Info()
}

func Example() {
	fs := afero.NewMemMapFs()
	content := "[server]\nhost=0.0.0.0\n"
	if err := afero.WriteFile(fs, "config.ini", []byte(content), 0o644); err != nil {
		fmt.Println(err)
		return
	}

	store := inigo.New(inigo.WithSource(inigo.NewFileSourceFS(fs, "", "config.ini")))
	defer store.Close()
	if err := store.Load(); err != nil {
		fmt.Println(err)
		return
	}

	srv, err := inigo.GetSection[serverConfig](store)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(srv.Host, srv.Port)

	srv.Port = 9090
	if err := store.Save(); err != nil {
		fmt.Println(err)
		return
	}
	saved, _ := afero.ReadFile(fs, "config.ini")
	fmt.Print(string(saved))
	// Output:
	// 0.0.0.0 8080
	// ; Network listener
	// [server]
	// ; Bind address
	// host=0.0.0.0
	// ; Bind port
	// port=9090
}

func ExampleStore_Subscribe() {
	store := inigo.New()
	defer store.Close()

	store.Subscribe(func(c notify.Change) {
		fmt.Printf("%s %s.%s -> %q\n", c.Type, c.Section, c.Key, c.New)
	})

	store.SetProperty("editor", "tab_width", "4")
	store.RemoveProperty("editor", "tab_width")
	// Output:
	// set editor.tab_width -> "4"
	// remove editor.tab_width -> ""
}
