// Package telegram provides a minimal Telegram Bot API client for sending
// notifications to Mini App users.
//
// The platform only needs outbound messages (journal reminders, report
// notifications), so the client covers sendMessage rather than wrapping the
// whole Bot API.
//
// # Usage
//
//	client, err := telegram.New(telegram.Config{BotToken: token})
//	if err != nil {
//		return err
//	}
//
//	err = client.SendMessage(ctx, chatID, "Your weekly report is ready.")
//
// Messages are sent with HTML parse mode. The client is safe for concurrent use.
package telegram
