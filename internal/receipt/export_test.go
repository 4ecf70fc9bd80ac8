package receipt

var ContainsActivePurchaseAt = (*AppleReceipt).containsActivePurchaseAt
