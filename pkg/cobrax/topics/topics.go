// Package topics provides a topic-based help system for Cobra CLI
// applications. Topics come from an fs.FS, typically an embedded docs
// directory, so the binary carries its own long-form documentation.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Topic is one help document.
type Topic struct {
	Name    string
	Format  string // file extension, e.g. ".md"
	Content string
}

// Manager holds the loaded topics and the renderer used to display them.
type Manager struct {
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	renderer     Renderer
}

// Options configures the Manager.
type Options struct {
	// Extensions lists the file extensions treated as topics;
	// defaults to .txt and .md
	Extensions []string

	// Renderer formats topic content; defaults to PlainRenderer
	Renderer Renderer
}

// New loads every topic file found in docs.
func New(docs fs.FS, opts Options) (*Manager, error) {
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".txt", ".md"}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = &PlainRenderer{}
	}

	m := &Manager{topics: make(map[string]*Topic), renderer: renderer}
	if docs == nil {
		return m, nil
	}

	err := fs.WalkDir(docs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := path.Ext(p)
		supported := false
		for _, e := range extensions {
			if ext == e {
				supported = true
				break
			}
		}
		if !supported {
			return nil
		}
		content, err := fs.ReadFile(docs, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), ext)
		m.topics[name] = &Topic{Name: name, Format: ext, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load help topics: %w", err)
	}
	return m, nil
}

// Get retrieves a topic by name. Flag spellings are accepted, so
// "help --presets" finds the "presets" topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimLeft(name, "-")
	topic, exists := m.topics[name]
	return topic, exists
}

// List returns all topic names, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// render formats one topic for display.
func (m *Manager) render(topic *Topic) string {
	return m.renderer.Render(topic.Content, topic.Format)
}

// Install wires the manager into rootCmd: it replaces the help command
// so "help <topic>" shows a topic, "help topics" lists them, and
// everything else falls through to Cobra's own help.
func Install(rootCmd *cobra.Command, docs fs.FS, opts Options) error {
	m, err := New(docs, opts)
	if err != nil {
		return err
	}
	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}
			if args[0] == "topics" {
				names := m.List()
				if len(names) == 0 {
					fmt.Println("No help topics available.")
					return
				}
				fmt.Println("Available help topics:")
				for _, name := range names {
					fmt.Printf("  %s\n", name)
				}
				fmt.Printf("\nUse '%s help <topic>' to read about a specific topic.\n", rootCmd.Name())
				return
			}
			if topic, exists := m.Get(args[0]); exists {
				fmt.Print(m.render(topic))
				return
			}
			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	// --help also resolves topics, so "onefile --help presets" works
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, exists := m.Get(args[0]); exists {
				fmt.Print(m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}
