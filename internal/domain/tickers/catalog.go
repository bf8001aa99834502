package tickers

// catalog is the static instrument list shipped with the dashboard.
// Popularity scores steer ranking inside a match band and come from the
// upstream usage export; they are not recomputed here.
var catalog = []Stock{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ", Popularity: 0.98},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ", Popularity: 0.97},
	{Symbol: "GOOGL", Name: "Alphabet Inc. Class A", Exchange: "NASDAQ", Popularity: 0.95},
	{Symbol: "AMZN", Name: "Amazon.com, Inc.", Exchange: "NASDAQ", Popularity: 0.94},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ", Popularity: 0.96},
	{Symbol: "META", Name: "Meta Platforms, Inc.", Exchange: "NASDAQ", Popularity: 0.92},
	{Symbol: "TSLA", Name: "Tesla, Inc.", Exchange: "NASDAQ", Popularity: 0.93},
	{Symbol: "BRK.B", Name: "Berkshire Hathaway Inc. Class B", Exchange: "NYSE", Popularity: 0.85},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE", Popularity: 0.84},
	{Symbol: "V", Name: "Visa Inc.", Exchange: "NYSE", Popularity: 0.83},
	{Symbol: "MA", Name: "Mastercard Incorporated", Exchange: "NYSE", Popularity: 0.80},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Exchange: "NYSE", Popularity: 0.78},
	{Symbol: "WMT", Name: "Walmart Inc.", Exchange: "NYSE", Popularity: 0.77},
	{Symbol: "PG", Name: "The Procter & Gamble Company", Exchange: "NYSE", Popularity: 0.74},
	{Symbol: "UNH", Name: "UnitedHealth Group Incorporated", Exchange: "NYSE", Popularity: 0.73},
	{Symbol: "HD", Name: "The Home Depot, Inc.", Exchange: "NYSE", Popularity: 0.72},
	{Symbol: "DIS", Name: "The Walt Disney Company", Exchange: "NYSE", Popularity: 0.76},
	{Symbol: "BAC", Name: "Bank of America Corporation", Exchange: "NYSE", Popularity: 0.70},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Exchange: "NYSE", Popularity: 0.69},
	{Symbol: "CVX", Name: "Chevron Corporation", Exchange: "NYSE", Popularity: 0.66},
	{Symbol: "KO", Name: "The Coca-Cola Company", Exchange: "NYSE", Popularity: 0.71},
	{Symbol: "PEP", Name: "PepsiCo, Inc.", Exchange: "NASDAQ", Popularity: 0.68},
	{Symbol: "COST", Name: "Costco Wholesale Corporation", Exchange: "NASDAQ", Popularity: 0.75},
	{Symbol: "MCD", Name: "McDonald's Corporation", Exchange: "NYSE", Popularity: 0.67},
	{Symbol: "CSCO", Name: "Cisco Systems, Inc.", Exchange: "NASDAQ", Popularity: 0.60},
	{Symbol: "INTC", Name: "Intel Corporation", Exchange: "NASDAQ", Popularity: 0.65},
	{Symbol: "AMD", Name: "Advanced Micro Devices, Inc.", Exchange: "NASDAQ", Popularity: 0.81},
	{Symbol: "ORCL", Name: "Oracle Corporation", Exchange: "NYSE", Popularity: 0.63},
	{Symbol: "CRM", Name: "Salesforce, Inc.", Exchange: "NYSE", Popularity: 0.62},
	{Symbol: "ADBE", Name: "Adobe Inc.", Exchange: "NASDAQ", Popularity: 0.64},
	{Symbol: "NFLX", Name: "Netflix, Inc.", Exchange: "NASDAQ", Popularity: 0.82},
	{Symbol: "ABNB", Name: "Airbnb, Inc.", Exchange: "NASDAQ", Popularity: 0.58},
	{Symbol: "UBER", Name: "Uber Technologies, Inc.", Exchange: "NYSE", Popularity: 0.61},
	{Symbol: "SHOP", Name: "Shopify Inc.", Exchange: "NYSE", Popularity: 0.57},
	{Symbol: "SQ", Name: "Block, Inc.", Exchange: "NYSE", Popularity: 0.54},
	{Symbol: "PYPL", Name: "PayPal Holdings, Inc.", Exchange: "NASDAQ", Popularity: 0.56},
	{Symbol: "T", Name: "AT&T Inc.", Exchange: "NYSE", Popularity: 0.52},
	{Symbol: "VZ", Name: "Verizon Communications Inc.", Exchange: "NYSE", Popularity: 0.51},
	{Symbol: "NKE", Name: "NIKE, Inc.", Exchange: "NYSE", Popularity: 0.59},
	{Symbol: "SBUX", Name: "Starbucks Corporation", Exchange: "NASDAQ", Popularity: 0.55},
	{Symbol: "BA", Name: "The Boeing Company", Exchange: "NYSE", Popularity: 0.53},
	{Symbol: "GE", Name: "GE Aerospace", Exchange: "NYSE", Popularity: 0.48},
	{Symbol: "F", Name: "Ford Motor Company", Exchange: "NYSE", Popularity: 0.50},
	{Symbol: "GM", Name: "General Motors Company", Exchange: "NYSE", Popularity: 0.47},
	{Symbol: "PLTR", Name: "Palantir Technologies Inc.", Exchange: "NASDAQ", Popularity: 0.79},
	{Symbol: "SPY", Name: "SPDR S&P 500 ETF Trust", Exchange: "NYSE Arca", Popularity: 0.90},
	{Symbol: "QQQ", Name: "Invesco QQQ Trust", Exchange: "NASDAQ", Popularity: 0.88},
	{Symbol: "VTI", Name: "Vanguard Total Stock Market ETF", Exchange: "NYSE Arca", Popularity: 0.86},
	{Symbol: "VOO", Name: "Vanguard S&P 500 ETF", Exchange: "NYSE Arca", Popularity: 0.87},
	{Symbol: "IWM", Name: "iShares Russell 2000 ETF", Exchange: "NYSE Arca", Popularity: 0.49},
}
