package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/academykit/academykit/pkg/events"
	"github.com/academykit/academykit/pkg/quota"
)

// DowngradeNotice builds the notification sent to an owner after a forced
// plan downgrade left some academies over the new plan's limits.
func DowngradeNotice(forced events.PlanDowngradeForced) Notification {
	var body strings.Builder
	fmt.Fprintf(&body, "<p>Your subscription was changed from the %s plan to the %s plan.</p>", forced.From, forced.To)
	body.WriteString("<p>The following academies exceed the new plan's limits and need your attention:</p><ul>")
	for _, v := range forced.Violations {
		fmt.Fprintf(&body, "<li>%s: %d %s (limit %d)</li>",
			violationScope(v), v.CurrentCount, v.Resource, v.Limit)
	}
	body.WriteString("</ul><p>Reduce usage or upgrade your plan to restore full access.</p>")

	return Notification{
		Recipient: forced.OwnerEmail,
		Subject:   fmt.Sprintf("Action required: your %s plan limits are exceeded", forced.To),
		BodyHTML:  body.String(),
		Tag:       "plan-downgrade",
	}
}

func violationScope(v quota.Violation) string {
	if v.AcademyName != "" {
		return v.AcademyName
	}
	return "your account"
}

// SubscribeDowngradeNotices wires the deliverer to forced-downgrade events
// on the bus. Delivery failures are handled by the bus (logged, never
// surfaced to the request that forced the downgrade).
func SubscribeDowngradeNotices(bus *events.Bus, deliverer Deliverer) {
	bus.Subscribe(events.KindPlanDowngradeForced, func(ctx context.Context, e events.Event) error {
		forced, ok := e.Payload.(events.PlanDowngradeForced)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnexpectedPayload, e.Payload)
		}
		return deliverer.Deliver(ctx, DowngradeNotice(forced))
	})
}
