package server_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/werunom/vscode-spell-checker/citest/testutil"
	"github.com/werunom/vscode-spell-checker/internal/host"
)

var _ = Describe("Event Stream", func() {
	var (
		tempDir    *testutil.TempDir
		testServer *testutil.TestServer
		sse        *testutil.SSEClient
	)

	BeforeEach(func() {
		var err error
		tempDir, err = testutil.NewTempDir()
		Expect(err).NotTo(HaveOccurred())

		testServer, err = testutil.StartTestServer("", tempDir.Path)
		Expect(err).NotTo(HaveOccurred())

		sse = testServer.SSEClient()
		Expect(sse.Connect(ctx, "/event")).To(Succeed())
	})

	AfterEach(func() {
		if sse != nil {
			sse.Close()
		}
		if testServer != nil {
			testServer.Stop()
		}
		if tempDir != nil {
			tempDir.Cleanup()
		}
	})

	It("streams settings.reset", func() {
		resp, err := testServer.Client().Post(ctx, "/reset", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.IsSuccess()).To(BeTrue())

		evt, err := sse.WaitForEvent("settings.reset", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(evt.ID).NotTo(BeEmpty())
	})

	It("streams config.registered", func() {
		path := tempDir.Join("shared.json")
		_, err := testServer.Client().Post(ctx, "/import", map[string]string{"path": path})
		Expect(err).NotTo(HaveOccurred())

		evt, err := sse.WaitForEvent("config.registered", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		var data struct {
			Path string `json:"path"`
		}
		Expect(json.Unmarshal(evt.Data, &data)).To(Succeed())
		Expect(data.Path).To(Equal(path))
	})

	It("streams words.added and config.changed", func() {
		_, err := testServer.Client().Post(ctx, "/words", map[string]any{
			"uri":   host.FileURI(tempDir.Join("doc.md")),
			"words": []string{"streamed"},
		})
		Expect(err).NotTo(HaveOccurred())

		evt, err := sse.WaitForEvent("words.added", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(evt.Data)).To(ContainSubstring("streamed"))

		// the new cspell.json is seen by the watcher
		_, err = sse.WaitForEvent("config.changed", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
	})
})
