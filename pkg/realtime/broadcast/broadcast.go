// Package broadcast couples the room registry to the two TTL caches: every
// register write invalidates its cache entries and then fans a structured
// event out to the matching room, in that order, within one call.
package broadcast

import (
	"time"

	"github.com/shashanksharma6338/register-live/pkg/manager"
	"github.com/shashanksharma6338/register-live/pkg/metrics"
	"github.com/shashanksharma6338/register-live/pkg/realtime/message"
	"github.com/shashanksharma6338/register-live/pkg/structs"
)

// Cache keys are derived strings: "<type>-<partition>" on the general tier,
// "public-<type>-<partition>" on the public tier, plus a derived dashboard
// summary per partition. The general key doubles as the room name for the
// targeted fan-out.
func GeneralKey(resourceType string, partition string) string {
	return resourceType + "-" + partition
}

func PublicKey(resourceType string, partition string) string {
	return "public-" + resourceType + "-" + partition
}

func DashboardKey(partition string) string {
	return "dashboard-summary-" + partition
}

// DataChange is the notifier the CRUD layer calls after a register write
// commits. Cache invalidation happens first, then the detailed event goes to
// the "<type>-<partition>" room only, so any single subscriber observes
// changes in causal order.
func DataChange(s *structs.Server, resourceType string, action string, payload any, partition string) {
	s.GeneralCache.Invalidate(GeneralKey(resourceType, partition))
	s.GeneralCache.Invalidate(DashboardKey(partition))
	s.PublicCache.Invalidate(PublicKey(resourceType, partition))

	members := manager.RoomMembers(s, GeneralKey(resourceType, partition))
	message.BroadcastEvent(members, "data-change", &structs.DataChange{
		Type:      resourceType,
		Action:    action,
		Data:      payload,
		Timestamp: time.Now().UnixMilli(),
	})
	metrics.BroadcastsSent.WithLabelValues("data-change").Inc()
}

// HomepageUpdate is the unscoped heads-up: every connection learns that
// something under the resource type changed, without payload detail.
func HomepageUpdate(s *structs.Server, resourceType string, action string, financialYear string) {
	message.BroadcastEvent(manager.AllClients(s), "homepage-data-update", &structs.HomepageUpdate{
		Type:          resourceType,
		Action:        action,
		FinancialYear: financialYear,
		Timestamp:     time.Now().UnixMilli(),
	})
	metrics.BroadcastsSent.WithLabelValues("homepage-data-update").Inc()
}

// Gaming emits a match-state event to the shared gaming room. Exactly one
// such event follows every accepted game action.
func Gaming(s *structs.Server, event string, game any) {
	message.BroadcastEvent(manager.RoomMembers(s, manager.RoomGaming), event, game)
	metrics.BroadcastsSent.WithLabelValues(event).Inc()
}
