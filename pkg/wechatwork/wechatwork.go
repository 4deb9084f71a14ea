// Package wechatwork posts run notifications to an enterprise WeChat group webhook.
package wechatwork

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const DefaultWebhookURL = "https://qyapi.weixin.qq.com/cgi-bin/webhook/send"

// WeChatWorkMessage 企业微信Webhook消息结构
type WeChatWorkMessage struct {
	MsgType  string           `json:"msgtype"`
	Text     *TextContent     `json:"text,omitempty"`
	Markdown *MarkdownContent `json:"markdown,omitempty"`
}

type TextContent struct {
	Content             string   `json:"content"`
	MentionedList       []string `json:"mentioned_list,omitempty"`
	MentionedMobileList []string `json:"mentioned_mobile_list,omitempty"`
}

type MarkdownContent struct {
	Content string `json:"content"`
}

// NotificationSender 通知发送器, disabled without a webhook key
type NotificationSender struct {
	WebhookURL string
	WebhookKey string
	Enabled    bool
	Client     *http.Client
}

func NewNotificationSender(webhookKey string) *NotificationSender {
	return &NotificationSender{
		WebhookURL: DefaultWebhookURL,
		WebhookKey: webhookKey,
		Enabled:    webhookKey != "",
		Client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendText 发送文本消息
func (ns *NotificationSender) SendText(content string, mentionedList, mentionedMobileList []string) error {
	if !ns.Enabled {
		return nil
	}
	return ns.send(WeChatWorkMessage{
		MsgType: "text",
		Text: &TextContent{
			Content:             content,
			MentionedList:       mentionedList,
			MentionedMobileList: mentionedMobileList,
		},
	})
}

// SendMarkdown 发送Markdown消息
func (ns *NotificationSender) SendMarkdown(content string) error {
	if !ns.Enabled {
		return nil
	}
	return ns.send(WeChatWorkMessage{
		MsgType:  "markdown",
		Markdown: &MarkdownContent{Content: content},
	})
}

func (ns *NotificationSender) send(message WeChatWorkMessage) error {
	var webhookURL = ns.WebhookURL + "?key=" + url.QueryEscape(ns.WebhookKey)

	jsonData, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", message.MsgType, err)
	}

	resp, err := ns.Client.Post(webhookURL, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	slog.Info("webhook notification sent", "msgtype", message.MsgType)
	return nil
}
