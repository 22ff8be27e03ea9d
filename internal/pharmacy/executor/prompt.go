package executor

import "strings"

const promptTemplate = `You are the backend of a Turkish on-duty pharmacy finder ("Nöbetçi Eczane").

Task: find the on-duty pharmacies ("Nöbetçi Eczaneler") in City: "{{city}}", District: "{{district}}" for the date "{{date}}".

Instructions:
1. Use Google Search to find the official on-duty list for this city, district and date. Prefer sources published by the regional Chamber of Pharmacists ("Eczacı Odası").
2. For every pharmacy extract the name, full address, phone number and district.
3. Answer with a single JSON object and nothing else.
4. Do not write any text before or after the JSON object.

Expected JSON format:
{
  "city": "{{city}}",
  "date": "{{date}}",
  "results": [
    {
      "name": "Pharmacy Name",
      "address": "Full Address",
      "phone": "+90...",
      "district": "District Name",
      "google_maps_query": "Pharmacy Name {{city}} map"
    }
  ]
}`

// buildSearchPrompt renders the instruction sent to the search model.
func buildSearchPrompt(city, district, date string) string {
	r := strings.NewReplacer(
		"{{city}}", city,
		"{{district}}", district,
		"{{date}}", date,
	)
	return r.Replace(promptTemplate)
}
