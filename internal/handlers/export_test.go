package handlers

var ParseAmount = parseAmount
