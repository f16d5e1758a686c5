package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/frahmantamala/dashboard-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		previous := slog.Default()
		DeferCleanup(func() { slog.SetDefault(previous) })
		buf = &bytes.Buffer{}
	})

	lastLine := func() map[string]interface{} {
		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		var entry map[string]interface{}
		Expect(json.Unmarshal(lines[len(lines)-1], &entry)).To(Succeed())
		return entry
	}

	It("writes JSON at the configured level", func() {
		logger.InitWithWriter(buf, "warn", "json")
		logger.LoggerWrapper().Info("dropped")
		Expect(buf.Len()).To(BeZero())

		logger.LoggerWrapper().Warn("kept", "user_id", "u1")
		entry := lastLine()
		Expect(entry["msg"]).To(Equal("kept"))
		Expect(entry["user_id"]).To(Equal("u1"))
	})

	It("falls back to text and info for unknown settings", func() {
		logger.InitWithWriter(buf, "loud", "pretty")
		logger.LoggerWrapper().Debug("hidden")
		logger.LoggerWrapper().Info("shown")
		Expect(buf.String()).NotTo(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("msg=shown"))
	})

	It("carries fields through the context", func() {
		logger.InitWithWriter(buf, "debug", "json")
		ctx := logger.With(context.Background(), "request_id", "r1")
		ctx = logger.With(ctx, "user_id", "u1")

		logger.From(ctx).Info("handled")
		entry := lastLine()
		Expect(entry["request_id"]).To(Equal("r1"))
		Expect(entry["user_id"]).To(Equal("u1"))
	})

	It("returns the process logger for a bare context", func() {
		logger.InitWithWriter(buf, "info", "json")
		Expect(logger.From(context.Background())).To(BeIdenticalTo(logger.LoggerWrapper()))
	})
})
