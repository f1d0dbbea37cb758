package resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workday/internal/config"
)

const (
	ConfigURI  = "workday://config"
	AccountURI = "workday://account"
)

// AddressFunc returns the email address of the configured account.
type AddressFunc func(ctx context.Context) (string, error)

// RegisterWorkdayResources registers the configuration and account
// resources. address may be nil when no Google account is reachable; the
// account resource then reports the account name only.
func RegisterWorkdayResources(s *mcpserver.MCPServer, cfg *config.Config, address AddressFunc) error {
	if cfg == nil {
		return errors.New("configuration is required")
	}

	configResource := mcp.NewResource(
		ConfigURI,
		"Workday Configuration",
		mcp.WithResourceDescription("Working hours, calendar source and job settings in effect"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(configResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, configView(cfg))
	})

	accountResource := mcp.NewResource(
		AccountURI,
		"Google Account",
		mcp.WithResourceDescription("The Google account workday reads calendars and mail from"),
		mcp.WithMIMEType("application/json"),
	)
	s.AddResource(accountResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleAccount(ctx, request, cfg.Account, address)
	})

	return nil
}

func handleAccount(ctx context.Context, request mcp.ReadResourceRequest, account string, address AddressFunc) ([]mcp.ResourceContents, error) {
	data := map[string]interface{}{
		"account": account,
	}
	if address != nil {
		email, err := address(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get account address: %w", err)
		}
		data["email"] = email
	}
	return jsonContents(request.Params.URI, data)
}

// configView leaves out store credentials.
func configView(cfg *config.Config) map[string]interface{} {
	return map[string]interface{}{
		"account":  cfg.Account,
		"timezone": cfg.Timezone,
		"calendar": map[string]interface{}{
			"source":       cfg.Calendar.Source,
			"calendar_id":  cfg.Calendar.CalendarID,
			"ics_feeds":    len(cfg.Calendar.ICS),
			"skip_all_day": cfg.Calendar.SkipAllDay,
		},
		"gaps": map[string]interface{}{
			"work_start_hour": cfg.Gaps.WorkStartHour,
			"work_end_hour":   cfg.Gaps.WorkEndHour,
			"min_gap_hours":   cfg.Gaps.MinGapHours,
			"days_ahead":      cfg.Gaps.DaysAhead,
			"skip_weekends":   cfg.Gaps.SkipWeekends,
			"strict":          cfg.Gaps.Strict,
		},
		"reminders": map[string]interface{}{
			"keywords":    cfg.Reminders.Keywords,
			"days_before": cfg.Reminders.DaysBefore,
			"schedule":    cfg.Reminders.Schedule,
			"date_order":  cfg.Reminders.DateOrder,
		},
		"autoreply": map[string]interface{}{
			"enabled":  cfg.AutoReply.Enabled,
			"schedule": cfg.AutoReply.Schedule,
		},
		"summary": map[string]interface{}{
			"period": cfg.Summary.Period,
			"format": cfg.Summary.Format,
		},
		"store": cfg.Store.Type,
	}
}

func jsonContents(uri string, v interface{}) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
