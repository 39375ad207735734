package ws

// EventType - тип изменения строки
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
	// EventNotice - пользовательское уведомление (тост), доставляется без подписки
	EventNotice EventType = "NOTICE"
	eventAny    EventType = "*"
)

// Таблицы change-feed
const (
	TableMessages      = "messages"
	TableNotifications = "notifications"
	TableBans          = "bans"
	TableApplications  = "applications"
	TableNotices       = "notices"
)

// ChangeEvent - событие изменения. Columns используются только для фильтров подписок.
type ChangeEvent struct {
	Table   string            `json:"table"`
	Type    EventType         `json:"type"`
	Columns map[string]string `json:"-"`
	Record  any               `json:"record,omitempty"`
}

// Publisher - то, что нужно сервисам от хаба
type Publisher interface {
	Publish(evt ChangeEvent, audience ...string)
}

// Subscription - подписка клиента на таблицу.
// Filters - группы равенств; событие подходит, если совпала хотя бы одна группа целиком.
type Subscription struct {
	ID      string              `json:"id"`
	Table   string              `json:"table"`
	Event   EventType           `json:"event"`
	Filters []map[string]string `json:"filters"`
}

// Matches проверяет, подходит ли событие под подписку
func (s Subscription) Matches(evt ChangeEvent) bool {
	if s.Table != evt.Table {
		return false
	}
	if s.Event != "" && s.Event != eventAny && s.Event != evt.Type {
		return false
	}
	if len(s.Filters) == 0 {
		return true
	}

	for _, group := range s.Filters {
		if matchGroup(group, evt.Columns) {
			return true
		}
	}
	return false
}

func matchGroup(group, columns map[string]string) bool {
	for column, want := range group {
		got, ok := columns[column]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Envelope - то, что уходит в сокет
type Envelope struct {
	Type         string       `json:"type"`
	Subscription string       `json:"subscription,omitempty"`
	Event        *ChangeEvent `json:"event,omitempty"`
	Error        string       `json:"error,omitempty"`
}

// PairFilter - фильтр переписки двух пользователей в обе стороны
func PairFilter(a, b string) []map[string]string {
	return []map[string]string{
		{"sender_id": a, "receiver_id": b},
		{"sender_id": b, "receiver_id": a},
	}
}
