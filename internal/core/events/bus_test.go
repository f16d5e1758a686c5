package events_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/frahmantamala/dashboard-portal/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		buf *bytes.Buffer
		ctx context.Context
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		bus = events.NewEventBus(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
		ctx = context.Background()
	})

	It("delivers published events to every subscriber", func() {
		var (
			mu   sync.Mutex
			seen []string
		)
		record := func(tag string) events.Handler {
			return func(_ context.Context, e events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				seen = append(seen, tag+":"+e.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeCompanyDeleted, record("a"))
		bus.Subscribe(events.EventTypeCompanyDeleted, record("b"))

		Expect(bus.Publish(ctx, events.NewCompanyDeletedEvent("c1", "admin"))).To(Succeed())
		bus.Wait()

		Expect(seen).To(ConsistOf("a:company.deleted", "b:company.deleted"))
	})

	It("keeps running handlers after the request context is cancelled", func() {
		reqCtx, cancel := context.WithCancel(ctx)
		var handlerErr error
		bus.Subscribe(events.EventTypeProjectDeleted, func(c context.Context, _ events.Event) error {
			handlerErr = c.Err()
			return nil
		})
		cancel()

		Expect(bus.Publish(reqCtx, events.NewProjectDeletedEvent("p1", "c1", "admin"))).To(Succeed())
		bus.Wait()
		Expect(handlerErr).NotTo(HaveOccurred())
	})

	It("logs handler errors without failing the publish", func() {
		bus.Subscribe(events.EventTypeUserCreated, func(context.Context, events.Event) error {
			return errors.New("boom")
		})

		Expect(bus.Publish(ctx, events.NewUserCreatedEvent("u1", "a@b.co", false, "admin"))).To(Succeed())
		bus.Wait()

		Expect(buf.String()).To(ContainSubstring("event handler failed"))
		Expect(buf.String()).To(ContainSubstring("boom"))
	})

	It("recovers handler panics and logs them", func() {
		var ran bool
		bus.Subscribe(events.EventTypeUserCreated, func(context.Context, events.Event) error {
			panic("bad handler")
		})
		bus.Subscribe(events.EventTypeUserCreated, func(context.Context, events.Event) error {
			ran = true
			return nil
		})

		Expect(bus.Publish(ctx, events.NewUserCreatedEvent("u1", "a@b.co", false, "admin"))).To(Succeed())
		bus.Wait()

		Expect(ran).To(BeTrue())
		Expect(buf.String()).To(ContainSubstring("handler panicked: bad handler"))
	})

	It("writes access changes to the audit log", func() {
		events.RegisterAuditLogger(bus, slog.New(slog.NewJSONHandler(buf, nil)))

		Expect(bus.Publish(ctx, events.NewUserAccessUpdatedEvent("u1", []string{"c1"}, []string{"p1"}, "admin"))).To(Succeed())
		bus.Wait()

		Expect(buf.String()).To(ContainSubstring(`"event_type":"user.access_updated"`))
		Expect(buf.String()).To(ContainSubstring(`"user_id":"u1"`))
	})
})
