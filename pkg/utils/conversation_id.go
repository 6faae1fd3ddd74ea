package utils

// ConversationID derives a stable conversation document ID from the two
// participant IDs. The pair is sorted so both sides compute the same ID,
// which makes get-or-create a plain read/create by document ID instead of
// a field-match scan that can race into duplicates.
func ConversationID(userID, vendorID string) string {
	if userID > vendorID {
		userID, vendorID = vendorID, userID
	}
	return userID + "_" + vendorID
}
