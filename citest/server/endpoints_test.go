package server_test

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/werunom/vscode-spell-checker/citest/testutil"
	"github.com/werunom/vscode-spell-checker/internal/host"
)

var _ = Describe("Settings Endpoints", func() {
	var (
		tempDir    *testutil.TempDir
		testServer *testutil.TestServer
		client     *testutil.TestClient
	)

	BeforeEach(func() {
		var err error
		tempDir, err = testutil.NewTempDir()
		Expect(err).NotTo(HaveOccurred())

		_, err = tempDir.WriteFile("cspell.json", `{
			// project dictionary
			"words": ["werunom"],
			"ignorePaths": ["generated/**"]
		}`)
		Expect(err).NotTo(HaveOccurred())

		testServer, err = testutil.StartTestServer(tempDir.Join("user-settings.json"), tempDir.Path)
		Expect(err).NotTo(HaveOccurred())
		client = testServer.Client()
	})

	AfterEach(func() {
		if testServer != nil {
			testServer.Stop()
		}
		if tempDir != nil {
			tempDir.Cleanup()
		}
	})

	docURI := func(name string) string {
		return host.FileURI(tempDir.Join(name))
	}

	Describe("GET /settings", func() {
		It("merges folder settings over the defaults", func() {
			s, err := client.Settings(ctx, docURI("src/main.go"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Words).To(ContainElement("werunom"))
			Expect(s.Language).To(Equal("en"))
			Expect(s.Enabled).NotTo(BeNil())
			Expect(*s.Enabled).To(BeTrue())
		})

		It("applies the editor cSpell section last", func() {
			_, err := tempDir.WriteFile(".vscode/settings.json", `{"cSpell.language": "fr", "cSpell": {"words": ["bonjour"]}}`)
			Expect(err).NotTo(HaveOccurred())
			testServer.Docs.ResetSettings()

			s, err := client.Settings(ctx, docURI("a.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Language).To(Equal("fr"))
			Expect(s.Words).To(ContainElements("werunom", "bonjour"))
		})

		It("returns defaults for an empty uri", func() {
			s, err := client.Settings(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Words).NotTo(ContainElement("werunom"))
			Expect(s.AllowedSchemas).To(ContainElements("file", "untitled"))
		})

		It("resolves documents outside every folder", func() {
			s, err := client.Settings(ctx, "untitled:Untitled-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Words).NotTo(ContainElement("werunom"))
		})

		It("reports malformed settings files", func() {
			_, err := tempDir.WriteFile("cspell.json", `{"words": [`)
			Expect(err).NotTo(HaveOccurred())
			testServer.Docs.ResetSettings()

			resp, err := client.Get(ctx, "/settings", testutil.WithQuery(map[string]string{"uri": docURI("a.txt")}))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(resp.String()).To(ContainSubstring("cspell.json"))
		})

		It("picks up settings files changed on disk", func() {
			_, err := client.Settings(ctx, docURI("a.txt"))
			Expect(err).NotTo(HaveOccurred())

			_, err = tempDir.WriteFile("cspell.json", `{"words": ["rewritten"]}`)
			Expect(err).NotTo(HaveOccurred())

			Eventually(func() []string {
				s, err := client.Settings(ctx, docURI("a.txt"))
				if err != nil {
					return nil
				}
				return s.Words
			}, 5*time.Second, 50*time.Millisecond).Should(ContainElement("rewritten"))
		})
	})

	Describe("GET /excluded", func() {
		It("checks ordinary files", func() {
			excluded, err := client.Excluded(ctx, docURI("src/main.go"))
			Expect(err).NotTo(HaveOccurred())
			Expect(excluded).To(BeFalse())
		})

		It("excludes ignorePaths matches", func() {
			excluded, err := client.Excluded(ctx, docURI("generated/out.go"))
			Expect(err).NotTo(HaveOccurred())
			Expect(excluded).To(BeTrue())
		})

		It("excludes schemes that are not allowed", func() {
			excluded, err := client.Excluded(ctx, "output:extension-output-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(excluded).To(BeTrue())
		})

		It("honors search.exclude from the editor settings", func() {
			_, err := tempDir.WriteFile(".vscode/settings.json", `{"search.exclude": {"**/vendor": true}}`)
			Expect(err).NotTo(HaveOccurred())
			testServer.Docs.ResetSettings()

			excluded, err := client.Excluded(ctx, docURI("vendor/lib/x.go"))
			Expect(err).NotTo(HaveOccurred())
			Expect(excluded).To(BeTrue())
		})

		It("requires a uri", func() {
			resp, err := client.Get(ctx, "/excluded")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /folders", func() {
		It("lists the workspace folder", func() {
			resp, err := client.Get(ctx, "/folders")
			Expect(err).NotTo(HaveOccurred())

			var folders []struct {
				URI  string `json:"uri"`
				Name string `json:"name"`
			}
			Expect(resp.JSON(&folders)).To(Succeed())
			Expect(folders).To(HaveLen(1))
			Expect(folders[0].URI).To(Equal(host.FileURI(tempDir.Path)))
		})
	})

	Describe("POST /reset", func() {
		It("bumps the version", func() {
			before, err := client.Version(ctx)
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Post(ctx, "/reset", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsSuccess()).To(BeTrue())

			after, err := client.Version(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(after).To(BeNumerically(">", before))
		})
	})

	Describe("POST /import", func() {
		It("merges imported settings beneath the folder", func() {
			shared := tempDir.Join("shared/cspell.json")
			_, err := tempDir.WriteFile("shared/cspell.json", `{"words": ["sharedword"], "language": "de"}`)
			Expect(err).NotTo(HaveOccurred())

			resp, err := client.Post(ctx, "/import", map[string]string{"path": shared})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsSuccess()).To(BeTrue())

			s, err := client.Settings(ctx, docURI("a.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Words).To(ContainElements("werunom", "sharedword"))
			Expect(s.Language).To(Equal("de"))
		})

		It("rejects an empty path", func() {
			resp, err := client.Post(ctx, "/import", map[string]string{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("POST /words", func() {
		It("writes words to the folder settings file", func() {
			resp, err := client.Post(ctx, "/words", map[string]any{
				"uri":   docURI("src/main.go"),
				"words": []string{"werunom", "newword"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.IsSuccess()).To(BeTrue())

			var out struct {
				Path  string   `json:"path"`
				Added []string `json:"added"`
			}
			Expect(resp.JSON(&out)).To(Succeed())
			Expect(out.Path).To(Equal(tempDir.Join("cspell.json")))
			Expect(out.Added).To(Equal([]string{"newword"}))

			content, err := tempDir.ReadFile("cspell.json")
			Expect(err).NotTo(HaveOccurred())
			Expect(content).To(ContainSubstring("newword"))

			s, err := client.Settings(ctx, docURI("src/main.go"))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Words).To(ContainElement("newword"))
		})

		It("rejects documents outside the workspace", func() {
			resp, err := client.Post(ctx, "/words", map[string]any{
				"uri":   "untitled:Untitled-1",
				"words": []string{"x"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})
	})
})
