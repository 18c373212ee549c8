// Package docs 注册中继服务的 OpenAPI 文档，供 /openapi.json 读取。
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "description": "请求体为上游 generateContent 的 contents 结构，原样转发，响应状态码与正文原样返回",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Relay"],
                "summary": "生成图片描述",
                "parameters": [
                    {
                        "description": "{contents:[{role,parts:[{text},{inlineData:{mimeType,data}}]}]}",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "上游响应", "schema": {"type": "object"}},
                    "405": {"description": "Expected POST request", "schema": {"type": "string"}},
                    "500": {"description": "Worker error: <message>", "schema": {"type": "string"}}
                }
            },
            "options": {
                "tags": ["Relay"],
                "summary": "CORS 预检",
                "responses": {
                    "200": {"description": "", "schema": {"type": "string"}}
                }
            }
        },
        "/status": {
            "get": {
                "description": "返回模型、运行时长、凭据是否配置以及主机资源使用率",
                "produces": ["application/json"],
                "tags": ["System"],
                "summary": "服务状态",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/system.StatusData"}}
                }
            }
        }
    },
    "definitions": {
        "system.StatusData": {
            "type": "object",
            "properties": {
                "service": {"type": "string"},
                "model": {"type": "string"},
                "relay_path": {"type": "string"},
                "uptime": {"type": "string"},
                "credential_configured": {"type": "boolean"},
                "memory_percent": {"type": "number"},
                "cpu_percent": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "图片描述中继 API 文档",
	Description:      "持有 Gemini 凭据的无状态中继，转发客户端的生成请求",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
