package checkout

const TopicOrderPlaced = "order.placed"

// Partition key = order_id so events for one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
