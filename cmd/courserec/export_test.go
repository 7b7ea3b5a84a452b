package main

// NewScraper exposes scraper construction to the external test package.
var NewScraper = (*Main).newScraper
