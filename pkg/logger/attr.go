package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// TenantID records the tenant identifier under the key "tenant_id".
func TenantID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("tenant_id", id)
}

// ProfileID records the acting profile's identifier under the key "profile_id".
func ProfileID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("profile_id", id)
}

// AcademyID records the academy identifier under the key "academy_id".
func AcademyID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("academy_id", id)
}

// Plan records a plan code under the key "plan".
func Plan(code any) slog.Attr {
	return slog.Any("plan", code)
}

// Resource records a quota-bound resource type under the key "resource".
func Resource(resource any) slog.Attr {
	return slog.Any("resource", resource)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
