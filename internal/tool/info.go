package tool

import (
	"context"
	"encoding/json"
	"strings"
)

const returnPolicyText = "PartSelect offers a 30-day return policy on most parts. " +
	"Parts must be unused, in their original packaging, and in resalable condition. " +
	"Installed or damaged parts are generally not eligible for return. " +
	"Please visit the Returns section on PartSelect.com for full details and to initiate a return."

const helpLinksText = "🛠️ Helpful Links:\n" +
	"- <a href='https://www.partselect.com/Refrigerator-Parts.htm' target='_blank'>Refrigerator Parts Catalog</a>\n" +
	"- <a href='https://www.partselect.com/Dishwasher-Parts.htm' target='_blank'>Dishwasher Parts Catalog</a>\n" +
	"- <a href='https://www.partselect.com/Repair/Refrigerator/' target='_blank'>Refrigerator Repair Help</a>\n" +
	"- <a href='https://www.partselect.com/Repair/Dishwasher/' target='_blank'>Dishwasher Repair Help</a>\n" +
	"- <a href='https://www.partselect.com/Repair.aspx' target='_blank'>General Installation Guides & FAQs</a>"

// InfoTools returns the static information tools. They need no session.
func InfoTools() []Tool {
	return []Tool{
		{
			Name:        NameReturnPolicy,
			Description: "Provides information about PartSelect's return policy. Optional input: part_number.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"part_number": map[string]any{"type": "string"},
				},
			},
			Call: returnPolicy,
		},
		{
			Name:        NameHelpLinks,
			Description: "Provides helpful links: FAQs, main parts pages, repair help.",
			Call:        func(context.Context, string, json.RawMessage) string { return helpLinksText },
		},
	}
}

func returnPolicy(_ context.Context, _ string, raw json.RawMessage) string {
	args, err := decodeArgs(raw)
	if err == nil {
		if pn, ok := args["part_number"].(string); ok && strings.TrimSpace(pn) != "" {
			return "✅ Regarding part **" + strings.TrimSpace(pn) + "**: " + returnPolicyText
		}
	}
	return "✅ General Return Policy: " + returnPolicyText
}
