package structurer

// systemPrompt pins the service into a pure CSV-or-failure-token contract.
const systemPrompt = "You are an expert in extracting data from invoices. " +
	"Return only the CSV, without any explanations or extra messages. " +
	"If you cannot extract data, return exactly the word 'error' without quotes."

// instructionTemplate defines the five-field schema, the closed currency
// label vocabulary, and the exact header contract the service must emit.
const instructionTemplate = `You are an assistant specialized in structuring invoice information. I will provide you with raw text extracted from various invoices, and your task is to transform it into CSV format using a semicolon (;) as the field separator.

Extraction and formatting requirements:
1. invoice_date: Extract the invoice issue date and convert it to dd/mm/yyyy format. If multiple dates exist, choose the one labeled as invoice date or order date.
2. supplier: Extract the name of the issuing company and convert it to lowercase without punctuation marks (it may include letters and numbers).
3. invoice_description: Extract the description of the billed product or service. If there are multiple descriptions, choose the most representative one.
4. import: Extract the total amount of the invoice and convert it to Spanish format (use comma as decimal separator and remove thousand separators).
5. currency: Determine the invoice currency:
   - If it includes "EUR", "EURO" or the euro sign, return "euros".
   - If it includes "USD", "$", or any US dollar indicator, return "dollars".
   - If it includes "GBP", the pound sign, or any pound sterling indicator, return "pounds".
   - If it includes "JPY", the yen sign, or any Japanese yen indicator, return "yen".
   - If it includes "CHF", "franc", or "Swiss", return "swiss_francs".
   - If it includes "CAD", "C$", or "canadian", return "canadian_dollars".
   - If it includes "AUD", "A$", or "australian", return "australian_dollars".
   - If it includes "CNY", "yuan", or "renminbi", return "yuan".
   - If it includes "SEK", "kr", or "swedish", return "swedish_krona".
   - If it includes "NOK", "kr", or "norwegian", return "norwegian_krone".
   - If it includes "DKK", "kr", or "danish", return "danish_krone".
   - If it includes "INR", the rupee sign, or "rupee", return "rupees".
   - If it includes "BRL", "R$", or "real", return "reais".
   - If it includes "MXN", or "mexican peso", return "mexican_pesos".
   - If it includes "ZAR", or "rand", return "rands".
   - If it includes "SGD", "S$", or "singapore", return "singapore_dollars".
   - If it includes "HKD", "HK$", or "hong kong", return "hong_kong_dollars".
   - If the currency is unclear, return "others".

Required output format:
- Always include the following header as the first line (no exceptions):
invoice_date;supplier;invoice_description;import;currency
- Then, on each subsequent line, provide only the extracted values in the same order.
- Do not repeat headers under any circumstances.
- Do not generate empty lines.
- Do not include explanations or additional comments.

Expected output example in CSV:
invoice_date;supplier;invoice_description;import;currency
10/01/2024;openai llc;ChatGPT Plus Subscription;20,00;dollars
11/01/2024;canva pty ltd;Canva Pro Annual Plan;109,99;euros
16/01/2024;spotify ab;Spotify Premium Subscription;9,99;pounds
17/01/2024;rakuten japan;kobo ebook purchase;1500,00;yen
18/01/2024;airbnb inc;Rental in Zurich;112,50;swiss_francs

Final instructions:
- Return only the clean CSV, without header repetition or empty lines.
- If you cannot extract data, respond with "error" (without quotes).`
