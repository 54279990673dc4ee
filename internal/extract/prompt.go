package extract

// BuildReceiptPrompt returns the extraction prompt for receipt text analysis.
func BuildReceiptPrompt(text string) string {
	return `You are a receipt analyzer that extracts structured data from receipt text.
Always respond with valid JSON only. Focus on actual items purchased, not tax or subtotal entries.

Analyze this receipt text and extract the following information:
- merchant_name (from the header/top of receipt)
- date (in YYYY-MM-DD format)
- items (list of purchased items with name, quantity, unit_price, and total_price)
- total_amount (the final total as a number)

IMPORTANT:
- Each item must have: name, quantity, unit_price, and total_price
- Ignore tax, subtotal, and service charge entries
- All prices must be numbers (not null or text)
- Quantities must be integers
- If you're unsure about a price or quantity, skip that item entirely
- Round prices to 2 decimal places
- total_price for each item should equal quantity * unit_price
- If the date is not printed on the receipt, use an empty string

Format your response as valid JSON like this example:
{
    "merchant_name": "Restaurant Name",
    "date": "2024-03-15",
    "items": [
        {
            "name": "Chicken Rice",
            "quantity": 2,
            "unit_price": 8.50,
            "total_price": 17.00
        },
        {
            "name": "Ice Tea",
            "quantity": 1,
            "unit_price": 2.50,
            "total_price": 2.50
        }
    ],
    "total_amount": 19.50
}

Receipt text:
` + text
}
